package sqlinline

const QInsertShotHistory = `--sql 412bac9b-f68e-4cb4-9090-8e9b3ad5738f
insert into shot_history (id, account_id, batch_id, title, shot_type, image_url, description, seed, created_at)
values (gen_random_uuid(), $1::text, $2::text, $3::text, $4::text, $5::text, $6::text, $7::bigint, coalesce($8::timestamptz, now()));
`

const QListShotHistory = `--sql 5b7dd9a9-0104-4bb4-8cd8-4c2e744734a1
select account_id, batch_id, title, shot_type, image_url, description, seed, created_at
from shot_history
where account_id = $1::text
order by created_at desc
limit $2::int;
`
