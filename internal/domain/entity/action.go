package entity

// ActionKind distinguishes list views from client notifications.
type ActionKind string

const (
	ActionKindList         ActionKind = "list"
	ActionKindNotification ActionKind = "notification"
)

// NotificationType is the severity of a client notification.
type NotificationType string

const (
	NotificationWarning NotificationType = "warning"
	NotificationInfo    NotificationType = "info"
)

// Notification is a message the POS back office shows to the user.
type Notification struct {
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Type    NotificationType `json:"type"`
	Sticky  bool             `json:"sticky"`
}

// Action is the UI action descriptor returned by the view operations.
type Action struct {
	Kind         ActionKind        `json:"type"`
	Name         string            `json:"name,omitempty"`
	Model        string            `json:"res_model,omitempty"`
	GroupBy      []string          `json:"group_by,omitempty"`
	Payments     []PaymentPayload  `json:"payments,omitempty"`
	Notification *Notification     `json:"params,omitempty"`
	Context      map[string]string `json:"context,omitempty"`
}

// NewListAction builds a list action over payment lines.
func NewListAction(name string, payments []PosPayment, groupBy ...string) *Action {
	payloads := make([]PaymentPayload, 0, len(payments))
	for i := range payments {
		payloads = append(payloads, payments[i].Serialize())
	}
	return &Action{
		Kind:     ActionKindList,
		Name:     name,
		Model:    "pos.payment",
		GroupBy:  groupBy,
		Payments: payloads,
	}
}

// NewNotificationAction builds a client notification.
func NewNotificationAction(n Notification) *Action {
	return &Action{Kind: ActionKindNotification, Notification: &n}
}
