package model

// Category 分类（如电影、书籍、音乐）
type Category struct {
	ID   int    `json:"-" db:"id"`
	Name string `json:"name" db:"name"`
	Slug string `json:"slug" db:"slug" gorm:"unique;size:50"`
}

// Genre 体裁标签
type Genre struct {
	ID   int    `json:"-" db:"id"`
	Name string `json:"name" db:"name"`
	Slug string `json:"slug" db:"slug" gorm:"unique;size:50"`
}

// Title 作品
// Rating 为读取时按评论分数聚合的派生字段，无评论时为 null，不落库
type Title struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Year        int       `json:"year" db:"year" gorm:"index"`
	Description string    `json:"description" db:"description"`
	CategoryID  *int      `json:"-" db:"category_id"`
	Category    *Category `json:"category,omitempty"`
	Genres      []Genre   `json:"genre" gorm:"many2many:genre_titles"`
	Rating      *float64  `json:"rating" gorm:"->;-:migration"`
}

// GenreTitle 作品与体裁的多对多关联行
type GenreTitle struct {
	GenreID int `json:"genre_id" db:"genre_id" gorm:"primaryKey"`
	TitleID int `json:"title_id" db:"title_id" gorm:"primaryKey"`
}
