package models

// ProductModel is the published product built from approved releases. It is
// never edited directly; the workflow engine writes it during promotion.
type ProductModel struct {
	Base
	Title       string `json:"name"         gorm:"type:varchar(191);index"`
	Summary     string `json:"desc"         gorm:"type:text"`
	Logo        string `json:"logo"`
	TopImg      string `json:"top_img"`
	ForumPath   string `json:"forum_path"`
	TeamID      string `json:"team_id"      gorm:"type:char(36)"`
	KindID      string `json:"kind_id"      gorm:"type:char(36)"`
	FollowCount int64  `json:"follow_count" gorm:"default:0"`

	Team *TeamModel        `json:"team,omitempty" gorm:"foreignKey:TeamID"`
	Kind *ProductKindModel `json:"kind,omitempty" gorm:"foreignKey:KindID"`

	ProductTypes  []ProductTypeModel `json:"product_types,omitempty"  gorm:"many2many:product_product_types"`
	Documents     []DocumentModel    `json:"documents,omitempty"      gorm:"many2many:product_documents"`
	Cases         []CaseModel        `json:"cases,omitempty"          gorm:"many2many:product_cases"`
	Routes        []RouteModel       `json:"routes,omitempty"         gorm:"many2many:product_routes"`
	DevelopPlans  []PlanModel        `json:"develop_plans,omitempty"  gorm:"many2many:product_develop_plans"`
	DeliveryPlans []PlanModel        `json:"delivery_plans,omitempty" gorm:"many2many:product_delivery_plans"`
	Videos        []VideoModel       `json:"videos,omitempty"         gorm:"many2many:product_videos"`
}

func (ProductModel) TableName() string { return "products" }

func (m *ProductModel) GetTitle() string { return m.Title }
