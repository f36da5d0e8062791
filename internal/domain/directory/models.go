package directory

import "time"

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ManagerID string    `json:"managerId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Chain is the resolved approval chain for one user: the direct manager
// and up to two further hops. An empty ID means the chain terminates at
// that level, which is not an error.
type Chain struct {
	ManagerID        string `json:"managerId,omitempty"`
	Level2ApproverID string `json:"level2ApproverId,omitempty"`
	Level3ApproverID string `json:"level3ApproverId,omitempty"`
}
