package auth

import "net/http"

// Result is the common shape of every operation outcome. Success true
// means the operation specific fields are set; success false means Status
// and Message describe the failure, plus Errors for validation failures.
type Result struct {
	Success bool              `json:"success"`
	Status  int               `json:"status"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// RegisterResult is the outcome of Auther.Register
type RegisterResult struct {
	Result
	User *SafeUser `json:"user,omitempty"`
}

// LoginResult is the outcome of Auther.Login
type LoginResult struct {
	Result
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    string `json:"expiresIn,omitempty"`
}

// VerifyResult is the outcome of Auther.Verify
type VerifyResult struct {
	Result
	Claims AuthClaims `json:"payload,omitempty"`
}

// RefreshResult is the outcome of Auther.Refresh
type RefreshResult struct {
	Result
	AccessToken string `json:"accessToken,omitempty"`
	ExpiresIn   string `json:"expiresIn,omitempty"`
}

func failure(status int, message string) Result {
	return Result{Status: status, Message: message}
}

func validationFailure(err error) Result {
	return Result{
		Status:  http.StatusBadRequest,
		Message: "Validation error",
		Errors:  FormatValidationErrorToMap(err),
	}
}
