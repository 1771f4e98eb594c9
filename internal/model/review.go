package model

import (
	"time"
)

// Review 评论（一个作者对一个作品最多一条，由唯一索引兜底）
type Review struct {
	ID       int       `json:"id" db:"id"`
	TitleID  int       `json:"title_id" db:"title_id" gorm:"uniqueIndex:idx_review_author_title"`
	AuthorID int       `json:"-" db:"author_id" gorm:"uniqueIndex:idx_review_author_title"`
	Author   string    `json:"author" db:"author" gorm:"->;-:migration"`
	Text     string    `json:"text" db:"text"`
	Score    int       `json:"score" db:"score"`
	PubDate  time.Time `json:"pub_date" db:"pub_date" gorm:"index"`
}

// Comment 评论下的留言，始终从属于唯一一条评论
type Comment struct {
	ID       int       `json:"id" db:"id"`
	ReviewID int       `json:"review_id" db:"review_id" gorm:"index"`
	AuthorID int       `json:"-" db:"author_id"`
	Author   string    `json:"author" db:"author" gorm:"->;-:migration"`
	Text     string    `json:"text" db:"text"`
	PubDate  time.Time `json:"pub_date" db:"pub_date" gorm:"index"`
}
