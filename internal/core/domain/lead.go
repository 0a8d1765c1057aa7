package domain

import "time"

// Lead is a customer-submitted form entry moving through a pipeline.
// StageID empty means unassigned: the lead renders in the default "New"
// bucket of the board. A non-empty StageID must reference a stage whose
// pipeline belongs to the same owner as the lead.
type Lead struct {
	ID         string     `json:"id"`
	FormID     string     `json:"formId"`
	OwnerID    string     `json:"ownerId"`
	StageID    string     `json:"stageId,omitempty"`
	AssignedTo string     `json:"assignedToUserId,omitempty"`
	Data       string     `json:"data"`
	FollowUpBy *time.Time `json:"followUpBy,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Form is the read model for the form a lead was submitted through. Forms
// are owned and maintained outside this service; the automation engine only
// needs the owner, plan, display name, and notification address.
type Form struct {
	ID         string `json:"id"`
	OwnerID    string `json:"ownerId"`
	Name       string `json:"name"`
	AdminEmail string `json:"adminEmail,omitempty"`
	Plan       Plan   `json:"plan"`
}

// Plan is the owner's subscription tier.
type Plan string

const (
	PlanFree     Plan = "free"
	PlanPro      Plan = "pro"
	PlanBusiness Plan = "business"
)

// Session identifies an authenticated caller: the tenant it acts for and
// the user behind the API key.
type Session struct {
	OwnerID  string
	UserID   string
	Email    string
	Username string
	Role     Role
}

// Role controls read scoping. Sales users only see leads assigned to them.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleSales Role = "sales"
)

// AssignedScope returns the assigned-to filter implied by the session role,
// or empty when the session may see every lead of the tenant.
func (s *Session) AssignedScope() string {
	if s.Role == RoleSales {
		return s.UserID
	}
	return ""
}
