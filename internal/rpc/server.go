// Package rpc serves the storefront cart API over gRPC, next to the standard health service.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/wayward-coins/internal/cart"
	"github.com/xtding233/wayward-coins/internal/pricing"
	"github.com/xtding233/wayward-coins/internal/shop"
)

type storefront struct {
	shop   *shop.Service
	logger *zap.Logger
}

// NewStorefront adapts svc to StorefrontServer.
func NewStorefront(svc *shop.Service, logger *zap.Logger) StorefrontServer {
	return &storefront{shop: svc, logger: logger}
}

// session returns the request's session id, minting one when it is absent.
func (s *storefront) session(in *structpb.Struct) (string, error) {
	v, ok := in.GetFields()["session"]
	if !ok || v.GetStringValue() == "" {
		return s.shop.NewSession(), nil
	}
	id := v.GetStringValue()
	if !cart.ValidID(id) {
		return "", status.Errorf(codes.InvalidArgument, "invalid session %q", id)
	}
	return id, nil
}

func productID(in *structpb.Struct) (string, error) {
	id := in.GetFields()["id"].GetStringValue()
	if id == "" {
		return "", status.Error(codes.InvalidArgument, "id is required")
	}
	return id, nil
}

func amount(in *structpb.Struct) (float64, error) {
	v, ok := in.GetFields()["amount"]
	if !ok {
		return pricing.DefaultAmount, nil
	}
	if _, isNum := v.GetKind().(*structpb.Value_NumberValue); !isNum {
		return 0, status.Error(codes.InvalidArgument, "amount must be a number")
	}
	return v.GetNumberValue(), nil
}

// toStruct converts a JSON-tagged value into a Struct.
func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode reply: %v", err)
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, status.Errorf(codes.Internal, "encode reply: %v", err)
	}
	return out, nil
}

type cartReply struct {
	Session string        `json:"session"`
	Cart    shop.CartView `json:"cart"`
}

type customReply struct {
	Session string             `json:"session"`
	Cart    shop.CartView      `json:"cart"`
	Package pricing.Descriptor `json:"package"`
}

func (s *storefront) GetCart(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	session, err := s.session(in)
	if err != nil {
		return nil, err
	}
	return toStruct(cartReply{Session: session, Cart: s.shop.Cart(ctx, session)})
}

func (s *storefront) AddItem(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	session, err := s.session(in)
	if err != nil {
		return nil, err
	}
	id, err := productID(in)
	if err != nil {
		return nil, err
	}
	return toStruct(cartReply{Session: session, Cart: s.shop.Add(ctx, session, id)})
}

func (s *storefront) RemoveItem(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	session, err := s.session(in)
	if err != nil {
		return nil, err
	}
	id, err := productID(in)
	if err != nil {
		return nil, err
	}
	return toStruct(cartReply{Session: session, Cart: s.shop.Remove(ctx, session, id)})
}

func (s *storefront) AddCustom(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	session, err := s.session(in)
	if err != nil {
		return nil, err
	}
	amt, err := amount(in)
	if err != nil {
		return nil, err
	}
	view, d, err := s.shop.AddCustom(ctx, session, amt)
	if err != nil {
		s.logger.Error("add custom package failed", zap.String("session", session), zap.Error(err))
		return nil, status.Error(codes.Internal, err.Error())
	}
	return toStruct(customReply{Session: session, Cart: view, Package: d})
}

func (s *storefront) Quote(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	amt, err := amount(in)
	if err != nil {
		return nil, err
	}
	return toStruct(s.shop.Quote(amt))
}

// Server owns the gRPC listener.
type Server struct {
	Config Config

	grpc   *grpc.Server
	health *health.Server
	logger *zap.Logger
}

func New(cfg Config, svc *shop.Service, logger *zap.Logger) *Server {
	s := grpc.NewServer()
	RegisterStorefrontServer(s, NewStorefront(svc, logger))

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(s, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	return &Server{
		Config: cfg,
		grpc:   s,
		health: healthServer,
		logger: logger,
	}
}

func (s *Server) Addr() string {
	return net.JoinHostPort(s.Config.Host, fmt.Sprint(s.Config.Port))
}

// Serve blocks serving lis until Stop.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("run grpc server", zap.String("addr", lis.Addr().String()))
	return s.grpc.Serve(lis)
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start(context.Context) error {
	lis, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.Addr(), err)
	}
	go func() {
		if err := s.Serve(lis); err != nil {
			s.logger.Error("grpc server stopped", zap.Error(err))
		}
	}()
	return nil
}

// Stop drains in-flight calls, or cuts them off when ctx ends first.
func (s *Server) Stop(ctx context.Context) error {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.grpc.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.grpc.Stop()
	}
	return nil
}
