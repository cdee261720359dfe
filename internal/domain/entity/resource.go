package entity

import "time"

// Tables the resources screen reads and writes
const (
	ResourcesTable            = "mental_health_resources"
	ResourceInteractionsTable = "user_resource_interactions"
)

// InteractionViewed marks a resource the user opened
const InteractionViewed = "viewed"

// ResourceCategory groups wellness resources on the resources screen
type ResourceCategory string

const (
	ResourceCategoryCrisis       ResourceCategory = "crisis"
	ResourceCategoryBreathing    ResourceCategory = "breathing"
	ResourceCategoryMindfulness  ResourceCategory = "mindfulness"
	ResourceCategorySleep        ResourceCategory = "sleep"
	ResourceCategoryProfessional ResourceCategory = "professional"
)

// ResourceCategories lists categories in display order
var ResourceCategories = []ResourceCategory{
	ResourceCategoryCrisis,
	ResourceCategoryBreathing,
	ResourceCategoryMindfulness,
	ResourceCategorySleep,
	ResourceCategoryProfessional,
}

// IsValid checks the category is known
func (c ResourceCategory) IsValid() bool {
	for _, known := range ResourceCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Resource is one row of the mental_health_resources table
type Resource struct {
	ID               string           `json:"id" mapstructure:"id" gorm:"column:id;primaryKey;size:64"`
	Title            string           `json:"title" mapstructure:"title" gorm:"column:title;size:200;not null"`
	Description      string           `json:"description" mapstructure:"description" gorm:"column:description;type:text"`
	Category         ResourceCategory `json:"category" mapstructure:"category" gorm:"column:category;size:32;not null;index"`
	ContentURL       string           `json:"content_url,omitempty" mapstructure:"content_url" gorm:"column:content_url;size:500"`
	IsCrisisResource bool             `json:"is_crisis_resource" mapstructure:"is_crisis_resource" gorm:"column:is_crisis_resource;not null;default:false"`
	Phone            string           `json:"phone,omitempty" mapstructure:"phone" gorm:"column:phone;size:32"`
	Available        string           `json:"available,omitempty" mapstructure:"available" gorm:"column:available;size:64"`
}

// TableName returns the table name
func (Resource) TableName() string {
	return ResourcesTable
}

// ResourceInteraction records that a user acted on a resource
type ResourceInteraction struct {
	UserID          string `json:"user_id" gorm:"column:user_id;size:64;not null;index"`
	ResourceID      string `json:"resource_id" gorm:"column:resource_id;size:64;not null;index"`
	InteractionType string `json:"interaction_type" gorm:"column:interaction_type;size:20;not null"`
}

// TableName returns the table name
func (ResourceInteraction) TableName() string {
	return ResourceInteractionsTable
}

// ResourceInteractionRecord is a stored interaction with the fields the store assigns
type ResourceInteractionRecord struct {
	ID                  int64 `json:"id" gorm:"primaryKey;autoIncrement"`
	ResourceInteraction `gorm:"embedded"`
	CreatedAt           time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName returns the table name
func (ResourceInteractionRecord) TableName() string {
	return ResourceInteractionsTable
}
