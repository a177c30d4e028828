package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/po-console/internal/domain/repository"
)

// NumberPrefix prefijo diario de numeración: PO-YYYYMMDD-.
func NumberPrefix(day time.Time) string {
	return "PO-" + day.Format("20060102") + "-"
}

// NextNumber siguiente número de orden del día para la empresa (PO-YYYYMMDD-NNN).
func NextNumber(ctx context.Context, repo repository.OrderRepository, companyID string, day time.Time) (string, error) {
	prefix := NumberPrefix(day)
	n, err := repo.CountByNumberPrefix(ctx, companyID, prefix)
	if err != nil {
		return "", fmt.Errorf("order number: %w", err)
	}
	return fmt.Sprintf("%s%03d", prefix, n+1), nil
}
