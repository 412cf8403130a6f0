package models

// DraftStatus is the lifecycle state of a draft row. Values are stable and
// stored as-is in the database.
type DraftStatus int8

const (
	StatusCreated   DraftStatus = 1
	StatusApproved  DraftStatus = 2
	StatusRejected  DraftStatus = 3
	StatusReviewing DraftStatus = 4
)

func (s DraftStatus) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusApproved:
		return "approved"
	case StatusRejected:
		return "rejected"
	case StatusReviewing:
		return "reviewing"
	default:
		return "unknown"
	}
}

// ReleaseModel is the editable draft of a product. Approving a release either
// creates the published ProductModel or folds the changes back into it; the
// ProductID back-reference records which published row this draft feeds.
type ReleaseModel struct {
	Base
	Title     string      `json:"name"       gorm:"type:varchar(191);index"`
	Summary   string      `json:"desc"       gorm:"type:text"`
	Logo      string      `json:"logo"`
	TopImg    string      `json:"top_img"`
	ForumPath string      `json:"forum_path"`
	Status    DraftStatus `json:"status"     gorm:"index;default:1"`
	OwnerID   string      `json:"owner_id"   gorm:"type:char(36);index"`
	TeamID    string      `json:"team_id"    gorm:"type:char(36)"`
	KindID    string      `json:"kind_id"    gorm:"type:char(36)"`
	ProductID *string     `json:"product_id" gorm:"type:char(36);index"`

	Team *TeamModel        `json:"team,omitempty" gorm:"foreignKey:TeamID"`
	Kind *ProductKindModel `json:"kind,omitempty" gorm:"foreignKey:KindID"`

	ProductTypes  []ProductTypeModel `json:"product_types,omitempty"  gorm:"many2many:release_product_types"`
	Documents     []DocumentModel    `json:"documents,omitempty"      gorm:"many2many:release_documents"`
	Cases         []CaseModel        `json:"cases,omitempty"          gorm:"many2many:release_cases"`
	Routes        []RouteModel       `json:"routes,omitempty"         gorm:"many2many:release_routes"`
	DevelopPlans  []PlanModel        `json:"develop_plans,omitempty"  gorm:"many2many:release_develop_plans"`
	DeliveryPlans []PlanModel        `json:"delivery_plans,omitempty" gorm:"many2many:release_delivery_plans"`
	Videos        []VideoModel       `json:"videos,omitempty"         gorm:"many2many:release_videos"`
}

func (ReleaseModel) TableName() string { return "releases" }

func (m *ReleaseModel) GetTitle() string          { return m.Title }
func (m *ReleaseModel) GetStatus() DraftStatus    { return m.Status }
func (m *ReleaseModel) SetStatus(s DraftStatus)   { m.Status = s }
func (m *ReleaseModel) PublishedRef() *string     { return m.ProductID }
func (m *ReleaseModel) SetPublishedRef(id string) { m.ProductID = &id }

// SolutionDraftModel is the editable draft of a solution. Same lifecycle as
// ReleaseModel, smaller payload.
type SolutionDraftModel struct {
	Base
	Title      string      `json:"name"        gorm:"type:varchar(191);index"`
	Summary    string      `json:"desc"        gorm:"type:text"`
	TopImg     string      `json:"top_img"`
	Status     DraftStatus `json:"status"      gorm:"index;default:1"`
	OwnerID    string      `json:"owner_id"    gorm:"type:char(36);index"`
	SolutionID *string     `json:"solution_id" gorm:"type:char(36);index"`

	SolutionTypes []SolutionTypeModel `json:"solution_types,omitempty" gorm:"many2many:solution_draft_types"`
	Documents     []DocumentModel     `json:"documents,omitempty"      gorm:"many2many:solution_draft_documents"`
}

func (SolutionDraftModel) TableName() string { return "solution_drafts" }

func (m *SolutionDraftModel) GetTitle() string          { return m.Title }
func (m *SolutionDraftModel) GetStatus() DraftStatus    { return m.Status }
func (m *SolutionDraftModel) SetStatus(s DraftStatus)   { m.Status = s }
func (m *SolutionDraftModel) PublishedRef() *string     { return m.SolutionID }
func (m *SolutionDraftModel) SetPublishedRef(id string) { m.SolutionID = &id }
