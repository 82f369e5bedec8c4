package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/kelseyhightower/envconfig"
)

const (
	ssmTelegramTokenParam = "/stock-notifier/prod/telegram-token"
	ssmAuthSecretParam    = "/stock-notifier/prod/auth-secret"
)

type Config struct {
	Dev         bool   `envconfig:"DEV" default:"false"`
	Addr        string `envconfig:"ADDR" default:":8080"`
	CatalogPath string `envconfig:"CATALOG_PATH" default:"data/catalog.yaml"`

	AmazonBaseURL    string `envconfig:"AMAZON_BASE_URL" default:"https://webservices.amazon.in"`
	AmazonAccessKey  string `envconfig:"AMAZON_ACCESS_KEY"`
	AmazonSecretKey  string `envconfig:"AMAZON_SECRET_KEY"`
	AmazonPartnerTag string `envconfig:"AMAZON_PARTNER_TAG"`

	CromaBaseURL   string `envconfig:"CROMA_BASE_URL" default:"https://api.croma.com"`
	DefaultPincode string `envconfig:"DEFAULT_PINCODE" default:"132103"`

	CheckTimeout time.Duration `envconfig:"CHECK_TIMEOUT" default:"10s"`
	SendTimeout  time.Duration `envconfig:"SEND_TIMEOUT" default:"5s"`
	SendPace     time.Duration `envconfig:"SEND_PACE" default:"250ms"`

	TelegramToken string `envconfig:"TELEGRAM_TOKEN"`
	AuthSecret    string `envconfig:"AUTH_SECRET"`
}

// New processes environment variables and, outside of dev mode, resolves the
// Telegram token and auth secret from SSM Parameter Store. There are no
// fallback values for either secret: missing configuration fails startup.
func New(ctx context.Context) (*Config, error) {
	res := &Config{}

	err := envconfig.Process("", res)
	if err != nil {
		return nil, fmt.Errorf("envconfig process: %w", err)
	}

	if !res.Dev {
		if err = res.loadSSMSecrets(ctx); err != nil {
			return nil, err
		}
	}

	if res.TelegramToken == "" {
		return nil, errors.New("telegram token is required")
	}
	if res.AuthSecret == "" {
		return nil, errors.New("auth secret is required")
	}

	return res, nil
}

func (c *Config) loadSSMSecrets(ctx context.Context) error {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}
	client := ssm.NewFromConfig(cfg)

	c.TelegramToken, err = getSSMParameter(ctx, client, ssmTelegramTokenParam)
	if err != nil {
		return fmt.Errorf("get telegram token: %w", err)
	}
	c.AuthSecret, err = getSSMParameter(ctx, client, ssmAuthSecretParam)
	if err != nil {
		return fmt.Errorf("get auth secret: %w", err)
	}

	return nil
}

func getSSMParameter(ctx context.Context, client *ssm.Client, name string) (string, error) {
	param, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("get SSM parameter %s: %w", name, err)
	}
	if param.Parameter.Value == nil {
		return "", fmt.Errorf("SSM parameter %s not found", name)
	}

	return *param.Parameter.Value, nil
}
