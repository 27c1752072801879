package handler

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/status"

	"github.com/rl1809/packdemo/internal/core/domain"
	"github.com/rl1809/packdemo/internal/core/service"
)

const (
	ShowcaseServiceName = "packdemo.v1.Showcase"
	codecName           = "json"
)

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// jsonCodec lets plain Go structs travel over gRPC without generated protobuf types.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                       { return codecName }

type ShowRequest struct {
	Name string `json:"name"`
	Age  int64  `json:"age"`
}

type ShowResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ShowcaseServer interface {
	ShowUser(ctx context.Context, req *ShowRequest) (*ShowResponse, error)
	ShowVehicle(ctx context.Context, req *ShowRequest) (*ShowResponse, error)
}

type GRPCHandler struct {
	display *service.DisplayService
}

func NewGRPCHandler(display *service.DisplayService) *GRPCHandler {
	return &GRPCHandler{display: display}
}

func (h *GRPCHandler) ShowUser(ctx context.Context, req *ShowRequest) (*ShowResponse, error) {
	user := domain.NewUser(req.Name, int(req.Age))
	if err := h.display.ShowUser(user); err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &ShowResponse{
		Success: true,
		Message: user.String(),
	}, nil
}

func (h *GRPCHandler) ShowVehicle(ctx context.Context, req *ShowRequest) (*ShowResponse, error) {
	vehicle := domain.NewVehicle(req.Name, int(req.Age))
	if err := h.display.ShowVehicle(vehicle); err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &ShowResponse{
		Success: true,
		Message: vehicle.String(),
	}, nil
}

func RegisterShowcaseServer(s grpc.ServiceRegistrar, srv ShowcaseServer) {
	s.RegisterService(&showcaseServiceDesc, srv)
}

var showcaseServiceDesc = grpc.ServiceDesc{
	ServiceName: ShowcaseServiceName,
	HandlerType: (*ShowcaseServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ShowUser", Handler: showHandler("ShowUser", ShowcaseServer.ShowUser)},
		{MethodName: "ShowVehicle", Handler: showHandler("ShowVehicle", ShowcaseServer.ShowVehicle)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "packdemo/v1/showcase",
}

type showMethod func(ShowcaseServer, context.Context, *ShowRequest) (*ShowResponse, error)

func showHandler(name string, method showMethod) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	fullMethod := "/" + ShowcaseServiceName + "/" + name
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(ShowRequest)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return method(srv.(ShowcaseServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return method(srv.(ShowcaseServer), ctx, req.(*ShowRequest))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ShowcaseClient calls the Showcase service using the JSON codec.
type ShowcaseClient struct {
	cc grpc.ClientConnInterface
}

func NewShowcaseClient(cc grpc.ClientConnInterface) *ShowcaseClient {
	return &ShowcaseClient{cc: cc}
}

func (c *ShowcaseClient) ShowUser(ctx context.Context, in *ShowRequest, opts ...grpc.CallOption) (*ShowResponse, error) {
	return c.invoke(ctx, "ShowUser", in, opts)
}

func (c *ShowcaseClient) ShowVehicle(ctx context.Context, in *ShowRequest, opts ...grpc.CallOption) (*ShowResponse, error) {
	return c.invoke(ctx, "ShowVehicle", in, opts)
}

func (c *ShowcaseClient) invoke(ctx context.Context, method string, in *ShowRequest, opts []grpc.CallOption) (*ShowResponse, error) {
	out := new(ShowResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	if err := c.cc.Invoke(ctx, "/"+ShowcaseServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
