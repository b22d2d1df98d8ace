package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/veil/internal/common"
	pb "github.com/dmitrijs2005/veil/internal/proto"
	"github.com/dmitrijs2005/veil/internal/server/models"
	"github.com/dmitrijs2005/veil/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// errorCodes maps service sentinels to status codes. The status message is
// the sentinel's text so the client can restore it; InvalidArgument keeps
// the full detail.
var errorCodes = []struct {
	err  error
	code codes.Code
}{
	{common.ErrorInvalidArgument, codes.InvalidArgument},
	{common.ErrorAlreadyExists, codes.AlreadyExists},
	{common.ErrorNotFound, codes.NotFound},
	{common.ErrInvalidCredentials, codes.Unauthenticated},
	{common.ErrEmailNotConfirmed, codes.FailedPrecondition},
	{common.ErrRefreshTokenExpired, codes.Unauthenticated},
	{common.ErrTokenExpired, codes.Unauthenticated},
	{common.ErrInvalidToken, codes.Unauthenticated},
}

func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			if e.code == codes.InvalidArgument {
				return status.Error(e.code, err.Error())
			}
			return status.Error(e.code, e.err.Error())
		}
	}
	s.logger.Error(ctx, err.Error())
	return status.Error(codes.Internal, common.ErrorInternal.Error())
}

func userIDFromContext(ctx context.Context) (string, error) {
	id, ok := ctx.Value(UserIDKey).(string)
	if !ok || id == "" {
		return "", status.Error(codes.Unauthenticated, "missing user")
	}
	return id, nil
}

func decode(in *structpb.Struct, v any) error {
	if err := pb.Decode(in, v); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return nil
}

func encode(v any) (*structpb.Struct, error) {
	out, err := pb.Encode(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func userToPB(u *models.User) pb.User {
	if u == nil {
		return pb.User{}
	}
	return pb.User{ID: u.ID, Email: u.Email}
}

func sessionToPB(s *services.Session) *pb.Session {
	return &pb.Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresAt:    s.ExpiresAt.Unix(),
		User:         userToPB(s.User),
	}
}

func rowToPB(t *models.Transaction) pb.TransactionRow {
	return pb.TransactionRow{
		ID:        t.ID,
		UserID:    t.UserID,
		Type:      t.Type,
		Amount:    t.Amount,
		Recipient: t.Recipient,
		FromUser:  t.FromUser,
		Memo:      t.Memo,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
	}
}

func rowFromPB(r pb.TransactionRow) *models.Transaction {
	return &models.Transaction{
		UserID:    r.UserID,
		Type:      r.Type,
		Amount:    r.Amount,
		Recipient: r.Recipient,
		FromUser:  r.FromUser,
		Memo:      r.Memo,
		Status:    r.Status,
	}
}

func (s *GRPCServer) Ping(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return encode(pb.PingResponse{Status: "OK"})
}

func (s *GRPCServer) SignUp(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req pb.Credentials
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	res, err := s.users.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Registered", "user_id", res.User.ID)

	resp := pb.SignUpResponse{User: userToPB(res.User)}
	if res.Session != nil {
		resp.Session = sessionToPB(res.Session)
	} else {
		resp.ConfirmationPending = true
		// Mail delivery is out of scope; the link is logged for operators.
		s.logger.Info(ctx, "Confirmation required", "user_id", res.User.ID, "token", res.ConfirmationToken)
	}
	return encode(resp)
}

func (s *GRPCServer) SignIn(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req pb.Credentials
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	session, err := s.users.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return encode(sessionToPB(session))
}

func (s *GRPCServer) RefreshToken(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req pb.RefreshTokenRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	session, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, status.Error(codes.Unauthenticated, common.ErrInvalidToken.Error())
		}
		return nil, s.toStatus(ctx, err)
	}
	return encode(sessionToPB(session))
}

func (s *GRPCServer) GetUser(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return encode(userToPB(u))
}

func (s *GRPCServer) SignOut(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req pb.SignOutRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	if err := s.users.SignOut(ctx, req.RefreshToken); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return encode(pb.Empty{})
}

func (s *GRPCServer) InsertTransaction(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var req pb.TransactionRow
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	if req.UserID != "" && req.UserID != userID {
		return nil, status.Error(codes.PermissionDenied, "user mismatch")
	}

	row, err := s.transactions.Insert(ctx, userID, rowFromPB(req))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return encode(rowToPB(row))
}

func (s *GRPCServer) ListTransactions(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var req pb.ListTransactionsRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	if req.UserID != "" && req.UserID != userID {
		return nil, status.Error(codes.PermissionDenied, "user mismatch")
	}

	rows, err := s.transactions.ListByUser(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	resp := pb.ListTransactionsResponse{Rows: make([]pb.TransactionRow, 0, len(rows))}
	for _, r := range rows {
		resp.Rows = append(resp.Rows, rowToPB(r))
	}
	return encode(resp)
}

func (s *GRPCServer) UpdateTransactionStatus(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var req pb.UpdateStatusRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	row, err := s.transactions.UpdateStatus(ctx, userID, req.ID, req.Status)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return encode(rowToPB(row))
}
