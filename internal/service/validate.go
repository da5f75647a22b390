package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// gin 바인딩과 같은 "binding" 태그를 서비스 계층에서도 검증한다
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}

// validationDetail 검증 오류를 "필드:규칙" 목록으로 요약한다.
func validationDetail(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s:%s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s:%s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, ", ")
}

// wrapDetail errors.Is(err, base) 를 유지하면서 상세 내용을 덧붙인다.
func wrapDetail(base error, detail string) error {
	return fmt.Errorf("%w: %s", base, detail)
}
