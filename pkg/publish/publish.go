package publish

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/itohio/goldr/pkg/ldr"
	"github.com/itohio/goldr/pkg/link"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds how long a publish may wait for the broker.
const DefaultTimeout = 2 * time.Second

// Client is the part of paho.Client used by the Publisher.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

// Publisher forwards reports to an MQTT broker.
//
// Topics:
//
//	<prefix>/ldr1      "0.73" whenever LDR1 wins a cycle
//	<prefix>/ldr2      "0.73" whenever LDR2 wins a cycle
//	<prefix>/interval  observed reporting interval in milliseconds, retained
type Publisher struct {
	client  Client
	prefix  string
	qos     byte
	timeout time.Duration
	log     zerolog.Logger

	lastInterval time.Duration
}

// ClientOptionsFromURL parses mqtt://[user[:pass]@]host:port/prefix?client-id=id.
func ClientOptionsFromURL(serverURL string) (*paho.ClientOptions, string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, "", fmt.Errorf("invalid broker url: %w", err)
	}
	if u.Host == "" {
		return nil, "", fmt.Errorf("invalid broker url %q: missing host", serverURL)
	}

	var server string
	if u.Scheme == "" || u.Scheme == "mqtt" {
		server = "tcp"
	} else {
		server = u.Scheme
	}
	server += "://" + u.Host

	topicPrefix := strings.Trim(u.Path, "/")

	opts := paho.NewClientOptions()
	opts.AddBroker(server).
		SetAutoReconnect(true).
		SetCleanSession(true)
	if u.User != nil {
		opts.SetUsername(u.User.Username())
		if pwd, ok := u.User.Password(); ok {
			opts.SetPassword(pwd)
		}
	}

	if clientID := u.Query().Get("client-id"); clientID != "" {
		opts.SetClientID(clientID)
	}

	return opts, topicPrefix, nil
}

// Connect creates a paho client from serverURL, connects it and wraps it in a Publisher.
// clientID is used unless the URL carries its own client-id.
func Connect(serverURL, clientID string, qos byte, log zerolog.Logger) (*Publisher, func(), error) {
	opts, prefix, err := ClientOptionsFromURL(serverURL)
	if err != nil {
		return nil, nil, err
	}
	if opts.ClientID == "" {
		opts.SetClientID(clientID)
	}
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		log.Warn().Err(err).Msg("MQTT connection lost")
	})

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(DefaultTimeout) {
		client.Disconnect(0)
		return nil, nil, fmt.Errorf("connect to %s: timeout", serverURL)
	}
	if err := token.Error(); err != nil {
		return nil, nil, fmt.Errorf("connect to %s: %w", serverURL, err)
	}

	log.Info().Str("broker", opts.Servers[0].String()).Str("prefix", prefix).Msg("MQTT connected")

	return New(client, prefix, qos, log), func() { client.Disconnect(250) }, nil
}

// New wraps an already connected client.
func New(client Client, prefix string, qos byte, log zerolog.Logger) *Publisher {
	return &Publisher{
		client:  client,
		prefix:  strings.Trim(prefix, "/"),
		qos:     qos,
		timeout: DefaultTimeout,
		log:     log,
	}
}

// Topic returns the full topic for name.
func (p *Publisher) Topic(name string) string {
	if p.prefix == "" {
		return name
	}
	return p.prefix + "/" + name
}

// ChannelTopic returns the topic used for reports of ch.
func ChannelTopic(ch ldr.Channel) string {
	return strings.ToLower(ch.String())
}

// Publish sends one report.
func (p *Publisher) Publish(r link.Report) error {
	return p.send(p.Topic(ChannelTopic(r.Channel)), false, r.Value.String())
}

// PublishInterval sends the observed interval when it changed since the last call.
func (p *Publisher) PublishInterval(d time.Duration) error {
	if d <= 0 || d == p.lastInterval {
		return nil
	}
	if err := p.send(p.Topic("interval"), true, strconv.FormatInt(d.Milliseconds(), 10)); err != nil {
		return err
	}
	p.lastInterval = d
	return nil
}

func (p *Publisher) send(topic string, retained bool, payload string) error {
	token := p.client.Publish(topic, p.qos, retained, []byte(payload))
	if !token.WaitTimeout(p.timeout) {
		return fmt.Errorf("publish %s: timeout", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	p.log.Debug().Str("topic", topic).Str("payload", payload).Msg("Published")
	return nil
}
