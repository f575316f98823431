package models

// UpsertUserRequest is sent by the client after every login.
type UpsertUserRequest struct {
	Email       string `json:"email" binding:"required,email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
	AuthMethod  string `json:"authMethod"`
}

// UpdateProfileRequest is a partial profile update.
// Pointers distinguish fields that were not sent from fields being cleared.
type UpdateProfileRequest struct {
	DisplayName   *string   `json:"displayName,omitempty"`
	FullName      *string   `json:"fullName,omitempty"`
	PhotoURL      *string   `json:"photoURL,omitempty"`
	Age           *int      `json:"age,omitempty" binding:"omitempty,gte=0"`
	AboutInfo     *string   `json:"aboutInfo,omitempty"`
	Experience    *string   `json:"experience,omitempty"`
	Skills        *[]string `json:"skills,omitempty"`
	AvailableDays *[]string `json:"availableDays,omitempty"`
	AvailableTime *string   `json:"availableTime,omitempty"`
	Linkedin      *string   `json:"linkedin,omitempty"`
	Instagram     *string   `json:"instagram,omitempty"`
}

// Patch converts the request into a UserPatch restricted to profile fields.
func (r UpdateProfileRequest) Patch() UserPatch {
	return UserPatch{
		DisplayName:   r.DisplayName,
		FullName:      r.FullName,
		PhotoURL:      r.PhotoURL,
		Age:           r.Age,
		AboutInfo:     r.AboutInfo,
		Experience:    r.Experience,
		Skills:        r.Skills,
		AvailableDays: r.AvailableDays,
		AvailableTime: r.AvailableTime,
		Linkedin:      r.Linkedin,
		Instagram:     r.Instagram,
	}
}

// ApplyRequest is a member's trainer application.
type ApplyRequest struct {
	UserEmail     string   `json:"userEmail" binding:"required,email"`
	FullName      string   `json:"fullName" binding:"required"`
	PhotoURL      string   `json:"photoURL"`
	Age           int      `json:"age" binding:"gte=0"`
	AboutInfo     string   `json:"aboutInfo"`
	Experience    string   `json:"experience"`
	Skills        []string `json:"skills"`
	AvailableDays []string `json:"availableDays"`
	AvailableTime string   `json:"availableTime"`
	Linkedin      string   `json:"linkedin"`
	Instagram     string   `json:"instagram"`
}

// RejectApplicationRequest carries the admin's rationale.
type RejectApplicationRequest struct {
	AdminFeedback string `json:"adminFeedback" binding:"required"`
}

// CreateClassRequest creates a class.
type CreateClassRequest struct {
	ClassName string `json:"className" binding:"required"`
	Details   string `json:"details"`
	Image     string `json:"image"`
}

// AddSlotRequest is a trainer's new slot.
type AddSlotRequest struct {
	TrainerID       string          `json:"trainerId"`
	TrainerName     string          `json:"trainerName"`
	SlotName        string          `json:"slotName" binding:"required"`
	SlotTime        string          `json:"slotTime"`
	Days            []string        `json:"days"`
	SelectedClasses []SelectedClass `json:"selectedClasses" binding:"required,min=1"`
}

// CreatePostRequest is a new forum post. The author email comes from the token.
type CreatePostRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Image       string `json:"image"`
	AuthorName  string `json:"authorName"`
	AuthorImage string `json:"authorImage"`
}

// PaymentIntentRequest asks the processor for a client secret.
// Amount is in the smallest currency unit.
type PaymentIntentRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// SavePaymentRequest finalizes a booking after the client confirmed the payment.
type SavePaymentRequest struct {
	PaymentID   string   `json:"paymentId" binding:"required"`
	TrainerName string   `json:"trainerName"`
	SlotName    string   `json:"slotName"`
	SlotID      string   `json:"slotId" binding:"required"`
	TrainerID   string   `json:"trainerId" binding:"required"`
	PackageName string   `json:"packageName" binding:"required"`
	Price       float64  `json:"price" binding:"gte=0"`
	ClassesID   []string `json:"classesId" binding:"required,min=1"`
	UserName    string   `json:"userName"`
	UserEmail   string   `json:"userEmail" binding:"required,email"`
}

// CreateReviewRequest is a member's review.
type CreateReviewRequest struct {
	UserName  string `json:"userName"`
	UserImage string `json:"userImage"`
	TrainerID string `json:"trainerId"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Feedback  string `json:"feedback" binding:"required"`
}

// SubscribeRequest is a newsletter sign-up.
type SubscribeRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" binding:"required,email"`
}
