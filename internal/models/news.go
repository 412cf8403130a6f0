package models

type NewsModel struct {
	Base
	Title     string `json:"title"      gorm:"type:varchar(191);index"`
	Summary   string `json:"desc"       gorm:"type:text"`
	Content   string `json:"content"    gorm:"type:longtext"`
	CoverImg  string `json:"cover_img"`
	ViewCount int64  `json:"view_count" gorm:"default:0"`
}

func (NewsModel) TableName() string { return "news" }

type LabModel struct {
	Base
	Title   string `json:"title"   gorm:"type:varchar(191);index"`
	Summary string `json:"desc"    gorm:"type:text"`
	TopImg  string `json:"top_img"`
	Content string `json:"content" gorm:"type:longtext"`
}

func (LabModel) TableName() string { return "labs" }
