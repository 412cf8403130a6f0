package models

// Engagement rows pair a user with a content row. One row per pair; the
// aggregate counters on the content rows are maintained atomically by the
// services alongside these rows.

type FollowModel struct {
	Base
	UserID    string `json:"user_id"    gorm:"type:char(36);uniqueIndex:idx_follow_pair"`
	ProductID string `json:"product_id" gorm:"type:char(36);uniqueIndex:idx_follow_pair"`
}

func (FollowModel) TableName() string { return "follows" }

type SolutionFollowModel struct {
	Base
	UserID     string `json:"user_id"     gorm:"type:char(36);uniqueIndex:idx_solution_follow_pair"`
	SolutionID string `json:"solution_id" gorm:"type:char(36);uniqueIndex:idx_solution_follow_pair"`
}

func (SolutionFollowModel) TableName() string { return "solution_follows" }

type PraiseModel struct {
	Base
	UserID     string `json:"user_id"     gorm:"type:char(36);uniqueIndex:idx_praise_pair"`
	DocumentID string `json:"document_id" gorm:"type:char(36);uniqueIndex:idx_praise_pair"`
}

func (PraiseModel) TableName() string { return "praises" }

type CollectModel struct {
	Base
	UserID     string `json:"user_id"     gorm:"type:char(36);uniqueIndex:idx_collect_pair"`
	DocumentID string `json:"document_id" gorm:"type:char(36);uniqueIndex:idx_collect_pair"`
}

func (CollectModel) TableName() string { return "collects" }
