package models

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

type UserModel struct {
	Base
	Username string `json:"username" gorm:"type:varchar(191);uniqueIndex"`
	Name     string `json:"name"     gorm:"type:varchar(191)"`
	Password string `json:"-"        gorm:"type:varchar(191)"`
	Role     string `json:"role"     gorm:"type:varchar(32);default:editor"`
	Avatar   string `json:"avatar"`
}

func (UserModel) TableName() string { return "users" }
