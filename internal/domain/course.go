package domain

import "time"

type Course struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImagePath   string `json:"image"`
}

type CourseVideo struct {
	ID          int64     `json:"id"`
	CourseID    int64     `json:"course_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoPath   string    `json:"url"`
	DateAdded   time.Time `json:"dateUploaded"`
}

type CourseComment struct {
	ID        int64         `json:"id"`
	CourseID  int64         `json:"course_id"`
	UserID    int64         `json:"user_id"`
	Author    string        `json:"author"`
	Body      string        `json:"body"`
	CreatedAt time.Time     `json:"created_at"`
	Replies   []CourseReply `json:"replies"`
}

type CourseReply struct {
	ID        int64     `json:"id"`
	CommentID int64     `json:"comment_id"`
	UserID    int64     `json:"user_id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type CourseRating struct {
	ID       int64 `json:"id"`
	CourseID int64 `json:"course_id"`
	UserID   int64 `json:"user_id"`
	Value    int   `json:"value"`
}
