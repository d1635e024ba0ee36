package request

// CreateGuestRequest is the request body for creating a guest player
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateGameRequest is the request body for creating a game. Empty fields
// take the server defaults.
type CreateGameRequest struct {
	HumanMark  string `json:"human_mark,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Strategy   string `json:"strategy,omitempty"`
}

// MoveRequest is the request body for playing a cell
type MoveRequest struct {
	Cell *int `json:"cell"`
}

// UpdateSettingsRequest is the request body for changing game settings.
// Omitted fields are left unchanged.
type UpdateSettingsRequest struct {
	Difficulty *string `json:"difficulty,omitempty"`
	HumanMark  *string `json:"human_mark,omitempty"`
	Strategy   *string `json:"strategy,omitempty"`
}
