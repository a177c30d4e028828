package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/po-console/internal/application/dto"
	"github.com/jhoicas/po-console/internal/domain"
	"github.com/jhoicas/po-console/pkg/logger"
)

type errorMapping struct {
	err     error
	status  int
	code    string
	message string
}

// mensajes mostrados tal cual por la consola
var errorMappings = []errorMapping{
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "요청한 항목을 찾을 수 없습니다."},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND", "사용자를 찾을 수 없습니다."},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE", "이미 등록된 항목입니다."},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT", "현재 상태에서는 처리할 수 없습니다."},
	{domain.ErrNotDraft, fiber.StatusConflict, "NOT_DRAFT", "임시 저장 상태의 발주서만 삭제할 수 있습니다."},
	{domain.ErrEmptySelection, fiber.StatusBadRequest, "EMPTY_SELECTION", "선택된 발주서가 없습니다."},
	{domain.ErrInvalidBRN, fiber.StatusUnprocessableEntity, "INVALID_BRN", "사업자등록번호가 올바르지 않습니다."},
	{domain.ErrInvalidTemplate, fiber.StatusUnprocessableEntity, "INVALID_TEMPLATE", "양식 필드 설정이 올바르지 않습니다."},
	{domain.ErrUnsupportedDraft, fiber.StatusUnprocessableEntity, "UNSUPPORTED_DRAFT", "지원하지 않는 임시 저장 형식입니다."},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "INVALID_INPUT", "입력값이 올바르지 않습니다."},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED", "이메일 또는 비밀번호가 올바르지 않습니다."},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", "접근 권한이 없습니다."},
	{domain.ErrMailDelivery, fiber.StatusBadGateway, "MAIL_DELIVERY", "메일 발송에 실패했습니다."},
	{domain.ErrMailDisabled, fiber.StatusServiceUnavailable, "MAIL_DISABLED", "메일 발송이 설정되지 않았습니다."},
	{domain.ErrStorageDisabled, fiber.StatusServiceUnavailable, "STORAGE_DISABLED", "문서 저장소가 설정되지 않았습니다."},
}

// errorWriter traduce errores de dominio a respuestas HTTP; los no mapeados se registran y
// devuelven 500 sin exponer el detalle.
type errorWriter struct {
	log *logger.Logger
}

func (w errorWriter) write(c *fiber.Ctx, err error) error {
	var verrs dto.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: verrs[0].Message,
			Fields:  verrs,
		})
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			if m.status == fiber.StatusUnauthorized {
				return unauthorized(c, m.code, m.message)
			}
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: m.message})
		}
	}
	w.log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Code:    "INTERNAL",
		Message: "일시적인 오류가 발생했습니다. 잠시 후 다시 시도해 주세요.",
	})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "요청 형식이 올바르지 않습니다."})
}

func badQuery(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "조회 조건이 올바르지 않습니다."})
}
