package deps

import (
	"io"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"bakery.run/cmd/bakery/rootcmd"
)

func ProvideLogFactory(streams rootcmd.IOStreams) LogFactory {
	return &ZapLogFactory{
		out: streams.ErrOut,
	}
}

type LogFactory interface {
	Logger() logr.Logger
}

type ZapLogFactory struct {
	out io.Writer
}

func (f *ZapLogFactory) Logger() logr.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(f.out),
		zapcore.InfoLevel,
	)

	return zapr.NewLogger(zap.New(core))
}
