package gradestore

const Schema = `
create table if not exists student_course (
	id integer primary key,
	student text not null,
	course text not null,
	unique (student, course)
);

create table if not exists grade_snapshot (
	student_course_id integer not null references student_course(id) on delete cascade,
	time integer not null,
	value real not null,
	label text
);

create index if not exists grade_snapshot_course_time on grade_snapshot (student_course_id, time);
`
