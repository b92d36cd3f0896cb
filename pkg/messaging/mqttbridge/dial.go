package mqttbridge

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"

	"github.com/go-fluid/fluid/pkg/config"
	fluiderrors "github.com/go-fluid/fluid/pkg/errors"
)

// RoutePahoLogs sends the paho client's error and warning output to logger.
func RoutePahoLogs(logger logrus.FieldLogger) {
	entry := logger.WithField("component", "paho")
	mqtt.ERROR = entry
	mqtt.CRITICAL = entry
	mqtt.WARN = entry
}

// Options builds paho client options from cfg.
func Options(cfg config.MQTTConfig) *mqtt.ClientOptions {
	return mqtt.NewClientOptions().
		AddBroker(cfg.URL).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetAutoReconnect(true)
}

// Dial connects a paho client to the broker in cfg.
func Dial(cfg config.MQTTConfig) (mqtt.Client, error) {
	if !cfg.Enabled() {
		return nil, fluiderrors.New("mqttbridge.Dial", fluiderrors.KindConfig,
			fmt.Errorf("mqtt.url is not set"))
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := mqtt.NewClient(Options(cfg))
	token := client.Connect()
	if !token.WaitTimeout(timeout) {
		return nil, fluiderrors.New("mqttbridge.Dial", fluiderrors.KindTransport,
			fmt.Errorf("connect to %s timed out after %v", cfg.URL, timeout))
	}
	if err := token.Error(); err != nil {
		return nil, fluiderrors.New("mqttbridge.Dial", fluiderrors.KindTransport, err)
	}
	return client, nil
}
