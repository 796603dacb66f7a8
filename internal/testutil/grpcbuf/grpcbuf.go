// Package grpcbuf serves dynamically described gRPC services over an in-memory
// bufconn listener for tests.
package grpcbuf

import (
	"context"
	"net"
	"sync/atomic"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

const bufSize = 1024 * 1024

// MetaCapture captures incoming metadata on the server side for later inspection in tests.
type MetaCapture struct {
	last atomic.Value // stores metadata.MD
}

// Interceptor records incoming metadata and forwards the request to the next handler.
func (m *MetaCapture) Interceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		m.last.Store(md)
	}
	return handler(ctx, req)
}

// Last returns the most recently captured metadata or nil if none.
func (m *MetaCapture) Last() metadata.MD {
	if v := m.last.Load(); v != nil {
		return v.(metadata.MD)
	}
	return nil
}

// UnaryFunc handles one unary call whose request was decoded into a dynamic message.
type UnaryFunc func(ctx context.Context, in *dynamicpb.Message) (proto.Message, error)

// ServiceDesc builds a grpc.ServiceDesc for sd, routing each named method to
// its handler. Methods without a handler are not registered.
func ServiceDesc(sd protoreflect.ServiceDescriptor, handlers map[string]UnaryFunc) *grpc.ServiceDesc {
	desc := &grpc.ServiceDesc{
		ServiceName: string(sd.FullName()),
		HandlerType: (*interface{})(nil),
		Streams:     []grpc.StreamDesc{},
		Metadata:    sd.ParentFile().Path(),
	}
	for i := 0; i < sd.Methods().Len(); i++ {
		md := sd.Methods().Get(i)
		fn, ok := handlers[string(md.Name())]
		if !ok {
			continue
		}
		desc.Methods = append(desc.Methods, grpc.MethodDesc{
			MethodName: string(md.Name()),
			Handler:    unaryHandler(md, fn),
		})
	}
	return desc
}

func unaryHandler(md protoreflect.MethodDescriptor, fn UnaryFunc) grpc.MethodHandler {
	fullMethod := "/" + string(md.Parent().FullName()) + "/" + string(md.Name())
	return func(
		srv interface{},
		ctx context.Context,
		dec func(interface{}) error,
		interceptor grpc.UnaryServerInterceptor,
	) (interface{}, error) {
		in := dynamicpb.NewMessage(md.Input())
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return fn(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return fn(ctx, req.(*dynamicpb.Message))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// StartServer spins up a bufconn-backed gRPC server serving desc, with metadata capture enabled.
func StartServer(desc *grpc.ServiceDesc) (*grpc.Server, *bufconn.Listener, *MetaCapture) {
	lis := bufconn.Listen(bufSize)
	cap := &MetaCapture{}
	srv := grpc.NewServer(grpc.UnaryInterceptor(cap.Interceptor))
	srv.RegisterService(desc, struct{}{})
	go func() { _ = srv.Serve(lis) }()
	return srv, lis, cap
}

// Dial connects to the provided bufconn listener using the standard gRPC client stack.
func Dial(lis *bufconn.Listener, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	dialer := func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }
	// bufconn has no TLS; the passthrough target keeps the custom dialer in charge.
	base := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithContextDialer(dialer),
	}
	base = append(base, opts...)
	return grpc.NewClient("passthrough://bufnet", base...)
}
