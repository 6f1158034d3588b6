package interceptors

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// LoggerUnaryInterceptor логирует метод, итоговый статус и время выполнения
func LoggerUnaryInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()

	resp, err := handler(ctx, req)

	entry := logrus.WithFields(logrus.Fields{
		"method":   info.FullMethod,
		"duration": time.Since(start),
	})
	if err != nil {
		st := status.Convert(err)
		entry.WithField("code", st.Code().String()).Warnf("request failed: %s", st.Message())
	} else {
		entry.Debug("request completed")
	}

	return resp, err
}
