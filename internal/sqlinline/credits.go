package sqlinline

const QChargeCredits = `--sql 7c55d5bc-db5a-409f-ad2d-3f82b419dce9
update credit_accounts
set balance = balance - $2::int,
    updated_at = now()
where account_id = $1::text
  and balance >= $2::int
returning balance;
`

const QSelectCreditBalance = `--sql 6ca18c83-e717-4294-a8ae-32fe7bb5450c
select balance
from credit_accounts
where account_id = $1::text;
`

const QGrantCredits = `--sql 2ac547ee-42de-4206-97f4-565e86bb355a
insert into credit_accounts (account_id, balance, created_at, updated_at)
values ($1::text, $2::int, now(), now())
on conflict (account_id) do update set
    balance = credit_accounts.balance + excluded.balance,
    updated_at = now()
returning balance;
`
