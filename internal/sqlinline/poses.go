package sqlinline

const QListPosesByGender = `--sql 3835c5fc-bf26-4bf5-9de3-c9da2cffebec
select id, name, gender, tags, pose_text, coalesce(image_url, ''), coalesce(stickman_url, '')
from poses
where gender = $1::text
order by name;
`

const QSelectPose = `--sql d57e3414-cb13-440d-9065-6dc270f89740
select id, name, gender, tags, pose_text, coalesce(image_url, ''), coalesce(stickman_url, '')
from poses
where id = $1::text;
`

const QUpdatePoseStickman = `--sql 64194163-4ac9-42e3-9cb0-1ed94a232ffc
update poses
set stickman_url = $2::text,
    updated_at = now()
where id = $1::text;
`
