package interceptors

import (
	"io"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
)

// wrappedServerStream логирует сообщения стрима на уровне debug
type wrappedServerStream struct {
	grpc.ServerStream
	method string
}

func (w *wrappedServerStream) RecvMsg(m interface{}) error {
	err := w.ServerStream.RecvMsg(m)
	if err != nil && err != io.EOF {
		logrus.WithField("method", w.method).Warnf("stream RecvMsg error: %v", err)
		return err
	}
	logrus.WithField("method", w.method).Debugf("stream RecvMsg %T", m)
	return err
}

func (w *wrappedServerStream) SendMsg(m interface{}) error {
	err := w.ServerStream.SendMsg(m)
	if err != nil {
		logrus.WithField("method", w.method).Warnf("stream SendMsg error: %v", err)
	} else {
		logrus.WithField("method", w.method).Debugf("stream SendMsg %T", m)
	}
	return err
}

// StreamInterceptor логирует открытие, закрытие и сообщения стрима
func StreamInterceptor(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	entry := logrus.WithField("method", info.FullMethod)
	entry.Info("stream opened")

	err := handler(srv, &wrappedServerStream{ServerStream: ss, method: info.FullMethod})
	if err != nil {
		entry.Warnf("stream closed with error: %v", err)
	} else {
		entry.Info("stream closed")
	}

	return err
}
