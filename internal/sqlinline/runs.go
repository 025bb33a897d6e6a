package sqlinline

const QInsertRun = `--sql 7f3f2a9c-1d52-4c7e-9a0b-8e4f6d2c1b3a
insert into pipeline_runs(
  id,
  user_id,
  stage,
  points_reserved,
  prompt_suffix,
  started_at
)
values ($1::uuid, $2::text, $3::text, $4::int, $5::text, $6::timestamptz);`

const QFinishRun = `--sql c4a8d1e7-6b2f-4f39-8c5d-0a9e7b3f2d41
update pipeline_runs
set
  stage           = $2::text,
  product_file_id = nullif($3::bigint, 0),
  model_file_id   = nullif($4::bigint, 0),
  final_image_url = nullif($5::text, ''),
  final_file_id   = nullif($6::bigint, 0),
  failure_kind    = nullif($7::text, ''),
  failure_message = nullif($8::text, ''),
  finished_at     = $9::timestamptz
where id = $1::uuid;`

const QSelectRun = `--sql 2b6e9f04-3a71-4d85-b2c6-5f8a1d7e9c03
select
  id,
  user_id,
  stage,
  coalesce(product_file_id, 0),
  coalesce(model_file_id, 0),
  points_reserved,
  coalesce(prompt_suffix, ''),
  coalesce(final_image_url, ''),
  coalesce(final_file_id, 0),
  coalesce(failure_kind, ''),
  coalesce(failure_message, ''),
  started_at,
  coalesce(finished_at, started_at)
from pipeline_runs
where id = $1::uuid and user_id = $2::text;`

const QSelectRunsByUser = `--sql 9d5c3b18-7e24-4a6f-8d1b-c2f0a4e6b795
select
  id,
  user_id,
  stage,
  coalesce(product_file_id, 0),
  coalesce(model_file_id, 0),
  points_reserved,
  coalesce(prompt_suffix, ''),
  coalesce(final_image_url, ''),
  coalesce(final_file_id, 0),
  coalesce(failure_kind, ''),
  coalesce(failure_message, ''),
  started_at,
  coalesce(finished_at, started_at)
from pipeline_runs
where user_id = $1::text
order by started_at desc
limit $2::int;`
