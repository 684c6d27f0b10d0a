package leave

import (
	"context"

	"github.com/ezleave/ezleave-backend-go/internal/domain/user"
)

type LeaveService interface {
	Submit(ctx context.Context, actor user.Actor, req SubmitLeaveRequest) (LeaveRequestResponse, error)
	Approve(ctx context.Context, actor user.Actor, requestID string) (LeaveRequestResponse, error)
	Reject(ctx context.Context, actor user.Actor, req RejectLeaveRequest) (LeaveRequestResponse, error)
	Cancel(ctx context.Context, actor user.Actor, requestID string) (LeaveRequestResponse, error)
	AddComment(ctx context.Context, actor user.Actor, req AddCommentRequest) (LeaveRequestResponse, error)
	Get(ctx context.Context, actor user.Actor, requestID string) (LeaveRequestResponse, error)
	List(ctx context.Context, actor user.Actor, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)
	Stats(ctx context.Context, actor user.Actor, req StatsRequest) (StatsResponse, error)
	GetBalance(ctx context.Context, actor user.Actor, userID string) (BalanceResponse, error)
}
