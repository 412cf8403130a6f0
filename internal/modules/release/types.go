package release

import (
	"strings"

	"github.com/portal-space/core/internal/models"
)

// SaveReleaseDTO carries the multipart form fields for create and update.
// Referenced-id sets arrive as comma-separated id lists.
type SaveReleaseDTO struct {
	Name      string `form:"name"       binding:"required"`
	Desc      string `form:"desc"`
	ForumPath string `form:"forum_path"`
	TeamID    string `form:"team_id"    binding:"required"`
	KindID    string `form:"kind_id"    binding:"required"`

	ProductTypeIDs  string `form:"product_type_ids"`
	DocumentIDs     string `form:"document_ids"`
	CaseIDs         string `form:"case_ids"`
	RouteIDs        string `form:"route_ids"`
	DevelopPlanIDs  string `form:"develop_plan_ids"`
	DeliveryPlanIDs string `form:"delivery_plan_ids"`
	VideoIDs        string `form:"video_ids"`
}

// DecideDTO resolves a review.
type DecideDTO struct {
	Approved *bool `json:"approved" binding:"required"`
}

// ListFilter narrows the release list.
type ListFilter struct {
	Status  *models.DraftStatus
	Title   string
	OwnerID string
}

func (dto *SaveReleaseDTO) assocIDs() map[string][]string {
	return map[string][]string{
		AssocProductTypes:  splitIDs(dto.ProductTypeIDs),
		AssocDocuments:     splitIDs(dto.DocumentIDs),
		AssocCases:         splitIDs(dto.CaseIDs),
		AssocRoutes:        splitIDs(dto.RouteIDs),
		AssocDevelopPlans:  splitIDs(dto.DevelopPlanIDs),
		AssocDeliveryPlans: splitIDs(dto.DeliveryPlanIDs),
		AssocVideos:        splitIDs(dto.VideoIDs),
	}
}

func splitIDs(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
