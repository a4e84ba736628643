package grpc

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
	reflectionv1 "google.golang.org/grpc/reflection/grpc_reflection_v1"
	reflectionv1alpha "google.golang.org/grpc/reflection/grpc_reflection_v1alpha"

	"github.com/simaogato/stocksync-backend/internal/adapter/grpc/portfoliov1"
)

// RegisterReflection serves grpc reflection for the services backed by protobuf
// descriptors (health and reflection itself). PortfolioService uses the JSON codec
// and has no descriptor, so it is not listed.
func RegisterReflection(s *grpc.Server) {
	opts := reflection.ServerOptions{Services: describedServices{server: s}}
	reflectionv1.RegisterServerReflectionServer(s, reflection.NewServerV1(opts))
	reflectionv1alpha.RegisterServerReflectionServer(s, reflection.NewServer(opts))
}

type describedServices struct {
	server *grpc.Server
}

func (d describedServices) GetServiceInfo() map[string]grpc.ServiceInfo {
	info := d.server.GetServiceInfo()
	delete(info, portfoliov1.ServiceName)
	return info
}
