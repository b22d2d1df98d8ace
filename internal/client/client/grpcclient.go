package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/veil/internal/client/models"
	"github.com/dmitrijs2005/veil/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/veil/internal/common"
	"github.com/dmitrijs2005/veil/internal/logging"
	pb "github.com/dmitrijs2005/veil/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	grpcmd "google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"golang.org/x/sync/singleflight"
)

// SessionStorageKey is the metadata key the session is persisted under.
const SessionStorageKey = "veil-p2p-auth"

type storedSession struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.VeilServiceClient
	store       metadata.Repository
	logger      logging.Logger

	mu      sync.Mutex
	session *models.Session

	// refreshes coalesces concurrent refreshes of the same token; the
	// backend accepts each refresh token once.
	refreshes singleflight.Group

	lmu          sync.Mutex
	listeners    map[int]func(models.SessionEvent)
	nextListener int
}

// NewVeilClient prepares a client for endpointURL. The connection is
// established lazily on the first call. store may be nil, in which case
// sessions are not persisted.
func NewVeilClient(endpointURL string, store metadata.Repository, l logging.Logger, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{
		endpointURL: endpointURL,
		store:       store,
		logger:      l.With("module", "grpc_client"),
		listeners:   map[int]func(models.SessionEvent){},
	}

	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	opts = append(opts, grpc.WithUnaryInterceptor(c.accessTokenInterceptor))

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = pb.NewVeilServiceClient(conn)
	return c, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := grpcmd.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = grpcmd.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return grpcmd.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) tokens() (access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return "", ""
	}
	return s.session.AccessToken, s.session.RefreshToken
}

// accessTokenInterceptor attaches the access token and, when the backend
// reports it expired, refreshes the session once and retries the call.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	access, refresh := s.tokens()
	if access != "" {
		ctx = withAccessToken(ctx, access)
	}

	err := invoker(ctx, method, req, reply, cc, opts...)
	if err == nil || method == pb.VeilService_RefreshToken_FullMethodName {
		return err
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if refresh == "" {
		return err
	}

	session, err := s.refreshShared(ctx, refresh)
	if err != nil {
		return err
	}

	ctx = withAccessToken(ctx, session.AccessToken)
	return invoker(ctx, method, req, reply, cc, opts...)
}

// refreshShared returns a session newer than the one holding stale. Only one
// refresh per token reaches the backend; callers whose token was already
// rotated by another call reuse the current session.
func (s *GRPCClient) refreshShared(ctx context.Context, stale string) (*models.Session, error) {
	v, err, _ := s.refreshes.Do(stale, func() (any, error) {
		s.mu.Lock()
		cur := s.session
		s.mu.Unlock()

		if cur == nil {
			return nil, ErrUnauthorized
		}
		if cur.RefreshToken != stale {
			cp := *cur
			return &cp, nil
		}

		session, err := s.refresh(ctx, stale)
		if err != nil {
			return nil, err
		}
		return session, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Session), nil
}

// refresh trades refreshToken for a new session. A rejected refresh token
// ends the session.
func (s *GRPCClient) refresh(ctx context.Context, refreshToken string) (*models.Session, error) {
	in, err := pb.Encode(pb.RefreshTokenRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, err
	}

	out, err := s.client.RefreshToken(ctx, in)
	if err != nil {
		if status.Code(err) == codes.Unauthenticated {
			s.logger.Warn(ctx, "session expired", "error", err)
			s.dropSession(ctx)
		}
		return nil, s.mapError(err)
	}

	var resp pb.Session
	if err := pb.Decode(out, &resp); err != nil {
		return nil, err
	}

	session := sessionFromPB(resp)
	s.setSession(ctx, session, models.SessionTokenRefreshed)
	return session, nil
}

func sessionFromPB(p pb.Session) *models.Session {
	return &models.Session{
		UserID:       p.User.ID,
		Email:        p.User.Email,
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		ExpiresAt:    time.Unix(p.ExpiresAt, 0),
	}
}

// setSession installs session, persists it and notifies listeners.
func (s *GRPCClient) setSession(ctx context.Context, session *models.Session, kind models.SessionEventKind) {
	s.mu.Lock()
	s.session = session
	s.mu.Unlock()

	if s.store != nil {
		err := metadata.StoreJSON(ctx, s.store, SessionStorageKey, storedSession{
			UserID:       session.UserID,
			Email:        session.Email,
			AccessToken:  session.AccessToken,
			RefreshToken: session.RefreshToken,
			ExpiresAt:    session.ExpiresAt.Unix(),
		})
		if err != nil {
			s.logger.Warn(ctx, "persist session", "error", err)
		}
	}

	cp := *session
	s.emit(models.SessionEvent{Kind: kind, Session: &cp})
}

// dropSession forgets the session locally and notifies listeners.
func (s *GRPCClient) dropSession(ctx context.Context) {
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Delete(ctx, SessionStorageKey); err != nil {
			s.logger.Warn(ctx, "forget session", "error", err)
		}
	}

	s.emit(models.SessionEvent{Kind: models.SessionSignedOut})
}

func (s *GRPCClient) emit(ev models.SessionEvent) {
	s.lmu.Lock()
	fns := make([]func(models.SessionEvent), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.lmu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func (s *GRPCClient) OnSessionChange(fn func(models.SessionEvent)) func() {
	s.lmu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.lmu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.lmu.Lock()
			delete(s.listeners, id)
			s.lmu.Unlock()
		})
	}
}

// GetSession returns the in-memory session, or restores the persisted one
// and confirms it with the backend (refreshing it if the access token has
// expired). A session the backend rejects is discarded.
func (s *GRPCClient) GetSession(ctx context.Context) (*models.Session, error) {
	s.mu.Lock()
	if s.session != nil {
		cp := *s.session
		s.mu.Unlock()
		return &cp, nil
	}
	s.mu.Unlock()

	if s.store == nil {
		return nil, nil
	}

	var st storedSession
	ok, err := metadata.LoadJSON(ctx, s.store, SessionStorageKey, &st)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	s.mu.Lock()
	s.session = &models.Session{
		UserID:       st.UserID,
		Email:        st.Email,
		AccessToken:  st.AccessToken,
		RefreshToken: st.RefreshToken,
		ExpiresAt:    time.Unix(st.ExpiresAt, 0),
	}
	s.mu.Unlock()

	in, err := pb.Encode(pb.Empty{})
	if err != nil {
		return nil, err
	}
	out, err := s.client.GetUser(ctx, in)
	if err != nil {
		mapped := s.mapError(err)
		if errors.Is(mapped, ErrUnauthorized) {
			s.mu.Lock()
			stale := s.session != nil
			s.mu.Unlock()
			if stale {
				s.dropSession(ctx)
			}
			return nil, nil
		}
		s.mu.Lock()
		s.session = nil
		s.mu.Unlock()
		return nil, mapped
	}

	var u pb.User
	if err := pb.Decode(out, &u); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, nil
	}
	s.session.UserID = u.ID
	s.session.Email = u.Email
	cp := *s.session
	return &cp, nil
}

func (s *GRPCClient) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	in, err := pb.Encode(pb.Credentials{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	out, err := s.client.SignIn(ctx, in)
	if err != nil {
		return nil, s.mapError(err)
	}

	var resp pb.Session
	if err := pb.Decode(out, &resp); err != nil {
		return nil, err
	}

	session := sessionFromPB(resp)
	s.setSession(ctx, session, models.SessionSignedIn)
	cp := *session
	return &cp, nil
}

func (s *GRPCClient) SignUp(ctx context.Context, email, password string) (*models.Session, error) {
	in, err := pb.Encode(pb.Credentials{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	out, err := s.client.SignUp(ctx, in)
	if err != nil {
		return nil, s.mapError(err)
	}

	var resp pb.SignUpResponse
	if err := pb.Decode(out, &resp); err != nil {
		return nil, err
	}
	if resp.Session == nil {
		return nil, nil
	}

	session := sessionFromPB(*resp.Session)
	s.setSession(ctx, session, models.SessionSignedIn)
	cp := *session
	return &cp, nil
}

// SignOut revokes the refresh token remotely and always forgets the local
// session. The remote error, if any, is returned.
func (s *GRPCClient) SignOut(ctx context.Context) error {
	_, refresh := s.tokens()

	var remoteErr error
	if refresh != "" {
		in, err := pb.Encode(pb.SignOutRequest{RefreshToken: refresh})
		if err != nil {
			return err
		}
		if _, err := s.client.SignOut(ctx, in); err != nil {
			remoteErr = s.mapError(err)
		}
	}

	s.dropSession(ctx)
	return remoteErr
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	in, err := pb.Encode(pb.Empty{})
	if err != nil {
		return err
	}

	out, err := s.client.Ping(ctx, in)
	if err != nil {
		return s.mapError(err)
	}

	var resp pb.PingResponse
	if err := pb.Decode(out, &resp); err != nil {
		return err
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func rowFromModel(t *models.Transaction) pb.TransactionRow {
	row := pb.TransactionRow{
		ID:     t.ID,
		UserID: t.UserID,
		Type:   string(t.Kind),
		Amount: t.Amount,
		Memo:   t.Memo,
		Status: string(t.Status),
	}
	if t.CounterpartyIsSource() {
		row.FromUser = t.Counterparty
	} else {
		row.Recipient = t.Counterparty
	}
	return row
}

func rowToModel(r pb.TransactionRow) *models.Transaction {
	t := &models.Transaction{
		ID:        r.ID,
		UserID:    r.UserID,
		Kind:      models.Kind(r.Type),
		Amount:    r.Amount,
		Memo:      r.Memo,
		Status:    models.Status(r.Status),
		CreatedAt: r.CreatedAt,
	}
	if t.CounterpartyIsSource() {
		t.Counterparty = r.FromUser
	} else {
		t.Counterparty = r.Recipient
	}
	return t
}

func (s *GRPCClient) Insert(ctx context.Context, t *models.Transaction) (*models.Transaction, error) {
	in, err := pb.Encode(rowFromModel(t))
	if err != nil {
		return nil, err
	}

	out, err := s.client.InsertTransaction(ctx, in)
	if err != nil {
		return nil, s.mapError(err)
	}

	var row pb.TransactionRow
	if err := pb.Decode(out, &row); err != nil {
		return nil, err
	}
	return rowToModel(row), nil
}

func (s *GRPCClient) ListByUser(ctx context.Context, userID string) ([]*models.Transaction, error) {
	in, err := pb.Encode(pb.ListTransactionsRequest{UserID: userID})
	if err != nil {
		return nil, err
	}

	out, err := s.client.ListTransactions(ctx, in)
	if err != nil {
		return nil, s.mapError(err)
	}

	var resp pb.ListTransactionsResponse
	if err := pb.Decode(out, &resp); err != nil {
		return nil, err
	}

	rows := make([]*models.Transaction, 0, len(resp.Rows))
	for _, r := range resp.Rows {
		rows = append(rows, rowToModel(r))
	}
	return rows, nil
}

func (s *GRPCClient) UpdateStatus(ctx context.Context, id int64, st models.Status) error {
	in, err := pb.Encode(pb.UpdateStatusRequest{ID: id, Status: string(st)})
	if err != nil {
		return err
	}

	if _, err := s.client.UpdateTransactionStatus(ctx, in); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.Unauthenticated:
		if st.Message() == common.ErrInvalidCredentials.Error() {
			return common.ErrInvalidCredentials
		}
		return ErrUnauthorized
	case codes.PermissionDenied:
		return ErrUnauthorized
	case codes.FailedPrecondition:
		if st.Message() == common.ErrEmailNotConfirmed.Error() {
			return common.ErrEmailNotConfirmed
		}
	case codes.AlreadyExists:
		return common.ErrorAlreadyExists
	case codes.NotFound:
		return common.ErrorNotFound
	case codes.InvalidArgument:
		detail := strings.TrimPrefix(st.Message(), common.ErrorInvalidArgument.Error()+": ")
		return fmt.Errorf("%w: %s", common.ErrorInvalidArgument, detail)
	}
	return fmt.Errorf("rpc error: %w", err)
}
