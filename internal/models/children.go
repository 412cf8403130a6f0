package models

// Child entities referenced by drafts and published products. They are owned
// rows linked through join tables, so the draft and the published entity
// share the same underlying records.

type ProductTypeModel struct {
	Base
	Name string `json:"name" gorm:"type:varchar(191);index"`
	Icon string `json:"icon"`
}

func (ProductTypeModel) TableName() string { return "product_types" }

type ProductKindModel struct {
	Base
	Name string `json:"name" gorm:"type:varchar(191);index"`
}

func (ProductKindModel) TableName() string { return "product_kinds" }

type SolutionTypeModel struct {
	Base
	Name string `json:"name" gorm:"type:varchar(191);index"`
}

func (SolutionTypeModel) TableName() string { return "solution_types" }

type DocumentModel struct {
	Base
	Name          string `json:"name"           gorm:"type:varchar(191);index"`
	Summary       string `json:"desc"           gorm:"type:text"`
	DocTypeID     string `json:"doc_type_id"    gorm:"type:char(36)"`
	DownloadURL   string `json:"download_url"`
	DownloadCount int64  `json:"download_count" gorm:"default:0"`
	PraiseCount   int64  `json:"praise_count"   gorm:"default:0"`

	DocType *DocTypeModel `json:"doc_type,omitempty" gorm:"foreignKey:DocTypeID"`
}

func (DocumentModel) TableName() string { return "documents" }

type DocTypeModel struct {
	Base
	Name string `json:"name" gorm:"type:varchar(191)"`
}

func (DocTypeModel) TableName() string { return "doc_types" }

type CaseModel struct {
	Base
	Name     string `json:"name"    gorm:"type:varchar(191);index"`
	Summary  string `json:"desc"    gorm:"type:text"`
	CoverImg string `json:"cover_img"`
	Link     string `json:"link"`
}

func (CaseModel) TableName() string { return "cases" }

type RouteModel struct {
	Base
	Name        string `json:"name"          gorm:"type:varchar(191);index"`
	Summary     string `json:"desc"          gorm:"type:text"`
	RouteTypeID string `json:"route_type_id" gorm:"type:char(36)"`
	Link        string `json:"link"`

	RouteType *RouteTypeModel `json:"route_type,omitempty" gorm:"foreignKey:RouteTypeID"`
}

func (RouteModel) TableName() string { return "routes" }

type RouteTypeModel struct {
	Base
	Name string `json:"name" gorm:"type:varchar(191)"`
}

func (RouteTypeModel) TableName() string { return "route_types" }

// PlanKind separates development roadmap entries from delivery roadmap
// entries stored in the same table.
type PlanKind int8

const (
	PlanDevelop  PlanKind = 1
	PlanDelivery PlanKind = 2
)

type PlanModel struct {
	Base
	Name    string   `json:"name"   gorm:"type:varchar(191);index"`
	Summary string   `json:"desc"   gorm:"type:text"`
	Kind    PlanKind `json:"kind"   gorm:"index"`
	Date    string   `json:"date"   gorm:"type:varchar(32)"`
}

func (PlanModel) TableName() string { return "plans" }

type VideoModel struct {
	Base
	Name      string `json:"name" gorm:"type:varchar(191);index"`
	Summary   string `json:"desc" gorm:"type:text"`
	PosterURL string `json:"poster_url"`
	VideoURL  string `json:"video_url"`
}

func (VideoModel) TableName() string { return "videos" }
