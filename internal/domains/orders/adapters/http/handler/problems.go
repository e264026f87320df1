package handler

import (
	"errors"

	"github.com/Apurer/rack-rental/internal/domains/orders/application"
	apierrors "github.com/Apurer/rack-rental/internal/shared/errors"
)

const (
	unavailableDetail  = "a dependent service is temporarily unavailable, retry later"
	insufficientDetail = "not enough free racks of the requested category"
	transitionDetail   = "the order's current status does not allow this transition"
)

// ProblemFromError maps orchestrator error kinds to problem responses. Details are fixed per kind except
// for validation, so nothing a collaborator said reaches the caller. Internal errors are left to the
// responder's generic fallback.
func ProblemFromError(err error) (apierrors.ProblemDetail, bool) {
	kind := application.KindOf(err)
	var problem apierrors.ProblemDetail
	switch kind {
	case application.KindInvalidInput:
		problem = apierrors.ErrValidation.WithDetail(causeMessage(err))
	case application.KindOrderNotFound:
		problem = apierrors.ErrNotFound.WithDetail("order not found")
	case application.KindInvalidTransition:
		problem = apierrors.ErrConflict.WithDetail(transitionDetail)
	case application.KindInsufficientInventory:
		problem = apierrors.ErrConflict.WithDetail(insufficientDetail)
	case application.KindConcurrentModification:
		problem = apierrors.ErrConflict.WithDetail("the order was modified concurrently, retry the request")
	case application.KindPaymentRequired:
		problem = apierrors.ErrPaymentRequired.WithDetail("no payment is recorded for this order")
	case application.KindCollaboratorUnavailable:
		problem = apierrors.ErrServiceUnavailable.WithDetail(unavailableDetail)
	default:
		return apierrors.ProblemDetail{}, false
	}
	return problem.WithKind(string(kind), application.Retryable(err)), true
}

// causeMessage strips the taxonomy prefix so validation details read as the violated rule.
func causeMessage(err error) string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		if parts := joined.Unwrap(); len(parts) > 1 {
			return parts[len(parts)-1].Error()
		}
	}
	return err.Error()
}
