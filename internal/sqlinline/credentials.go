package sqlinline

const QSelectProviderCredential = `--sql 0b9f61e2-5d3c-4a8e-9c41-7e2f0d6a1b53
select secret
from provider_credentials
where provider = $1::text;
`

const QUpsertProviderCredential = `--sql e4a27c90-18b6-4f0d-a3e5-5c9b8d2f7a16
insert into provider_credentials (provider, secret, properties)
values ($1::text, $2::text, coalesce($3::jsonb, '{}'::jsonb))
on conflict (provider) do update set
    secret = excluded.secret,
    properties = excluded.properties,
    rotated_at = now();
`
