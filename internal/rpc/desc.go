package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the full gRPC service name.
const ServiceName = "storefront.v1.Storefront"

// Method names, relative to ServiceName.
const (
	MethodGetCart    = "GetCart"
	MethodAddItem    = "AddItem"
	MethodRemoveItem = "RemoveItem"
	MethodAddCustom  = "AddCustom"
	MethodQuote      = "Quote"
)

// StorefrontServer is the storefront API. Requests and replies are
// google.protobuf.Struct documents shaped like the JSON API.
type StorefrontServer interface {
	GetCart(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddItem(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RemoveItem(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddCustom(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Quote(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type call func(StorefrontServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(name string, fn call) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return fn(srv.(StorefrontServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + name,
			}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return fn(srv.(StorefrontServer), ctx, req.(*structpb.Struct))
			})
		},
	}
}

var StorefrontServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*StorefrontServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodGetCart, StorefrontServer.GetCart),
		unary(MethodAddItem, StorefrontServer.AddItem),
		unary(MethodRemoveItem, StorefrontServer.RemoveItem),
		unary(MethodAddCustom, StorefrontServer.AddCustom),
		unary(MethodQuote, StorefrontServer.Quote),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "storefront/v1/storefront.proto",
}

func RegisterStorefrontServer(s grpc.ServiceRegistrar, srv StorefrontServer) {
	s.RegisterService(&StorefrontServiceDesc, srv)
}
