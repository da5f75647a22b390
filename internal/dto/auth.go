package dto

// ── 인증 DTO ──

// LoginRequest 직원 로그인 요청
type LoginRequest struct {
	StaffName string `json:"staff_name" binding:"required,max=50"`
	Password  string `json:"password"   binding:"required"`
}

// TokenResponse 토큰 응답
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"` // 초
	StaffName   string `json:"staff_name"`
}
