package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-listing/internal/api/dto"
	"github.com/spec-kit/ticket-listing/internal/auth"
	"github.com/spec-kit/ticket-listing/internal/domain"
	"github.com/spec-kit/ticket-listing/internal/repository"
	"github.com/spec-kit/ticket-listing/internal/service"
	apperrors "github.com/spec-kit/ticket-listing/pkg/util/errorutil"
)

// OffsetQueryParam names the page start index query parameter.
const OffsetQueryParam = "psi"

// TicketsHandler serves the open-ticket listing page.
type TicketsHandler struct {
	listing    *service.ListingService
	messages   repository.PageMessageStore
	dateFormat string
	logger     *zap.Logger
}

// NewTicketsHandler constructs handler. messages may be nil, in which case the
// empty-state message is only returned in the response body.
func NewTicketsHandler(listing *service.ListingService, messages repository.PageMessageStore, dateFormat string, logger *zap.Logger) *TicketsHandler {
	if dateFormat == "" {
		dateFormat = "2006-01-02"
	}
	return &TicketsHandler{listing: listing, messages: messages, dateFormat: dateFormat, logger: logger}
}

// ListTickets GET /tickets?psi=<offset>.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	offset := service.ParseOffset(c.Query(OffsetQueryParam))

	ctx := c.UserContext()
	result, err := h.listing.BuildTicketListing(ctx, principal.UserID, offset)
	if err != nil {
		return err
	}

	if result.Empty && h.messages != nil {
		if err := h.messages.Set(ctx, principal.UserID, result.Message); err != nil {
			h.logger.Warn("unable to store page message", zap.String("user_id", principal.UserID), zap.Error(err))
		}
	}
	return c.JSON(fiber.Map{"data": h.listingResponse(result)})
}

// PopPageMessage GET /page-message returns and clears the pending message.
func (h *TicketsHandler) PopPageMessage(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if h.messages == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	msg, found, err := h.messages.Pop(c.UserContext(), principal.UserID)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if !found {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(fiber.Map{"data": dto.PageMessageResponse{Message: msg}})
}

func (h *TicketsHandler) listingResponse(result *domain.ListingResult) dto.TicketListingResponse {
	rows := make([]dto.TicketRow, 0, len(result.Rows))
	for _, row := range result.Rows {
		rows = append(rows, dto.TicketRow{
			ID:             row.ID,
			SenderID:       row.SenderID,
			RecipientID:    row.RecipientID,
			Status:         row.Status,
			Urgency:        int(row.Urgency),
			UrgencyLabel:   row.UrgencyLabel,
			Subject:        row.Subject,
			Message:        row.Message,
			CreatedAt:      row.CreatedAt,
			LastActivityAt: row.LastActivityAt,
			LastReply:      row.LastActivityAt.Format(h.dateFormat),
			RowBucket:      row.RowBucket,
		})
	}
	return dto.TicketListingResponse{
		Rows:           rows,
		PreviousOffset: result.PreviousOffset,
		NextOffset:     result.NextOffset,
		Offset:         result.Offset,
		PageSize:       result.PageSize,
		TotalCount:     result.TotalCount,
		Empty:          result.Empty,
		Message:        result.Message,
	}
}
