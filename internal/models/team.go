package models

type TeamModel struct {
	Base
	Name    string `json:"name" gorm:"type:varchar(191);index"`
	Summary string `json:"desc" gorm:"type:text"`

	Members []TeamMemberModel `json:"members,omitempty" gorm:"foreignKey:TeamID"`
}

func (TeamModel) TableName() string { return "teams" }

type TeamMemberModel struct {
	Base
	TeamID string `json:"team_id" gorm:"type:char(36);index"`
	Name   string `json:"name"    gorm:"type:varchar(191)"`
	Title  string `json:"title"   gorm:"type:varchar(191)"`
	Avatar string `json:"avatar"`
}

func (TeamMemberModel) TableName() string { return "team_members" }
