package models

// SolutionModel is the published solution built from approved solution
// drafts. Written only by the workflow engine.
type SolutionModel struct {
	Base
	Title       string `json:"name"         gorm:"type:varchar(191);index"`
	Summary     string `json:"desc"         gorm:"type:text"`
	TopImg      string `json:"top_img"`
	FollowCount int64  `json:"follow_count" gorm:"default:0"`

	SolutionTypes []SolutionTypeModel `json:"solution_types,omitempty" gorm:"many2many:solution_solution_types"`
	Documents     []DocumentModel     `json:"documents,omitempty"      gorm:"many2many:solution_documents"`
}

func (SolutionModel) TableName() string { return "solutions" }

func (m *SolutionModel) GetTitle() string { return m.Title }
