package infra

import (
	"github.com/m-mizutani/nibbler/pkg/domain/interfaces"
)

type Clients struct {
	githubApp interfaces.GitHubApp
	analyzer  interfaces.Analyzer
	bqClient  interfaces.BigQuery
}

type Option func(*Clients)

func New(options ...Option) *Clients {
	client := &Clients{}

	for _, opt := range options {
		opt(client)
	}

	return client
}

func (x *Clients) GitHubApp() interfaces.GitHubApp {
	return x.githubApp
}
func (x *Clients) Analyzer() interfaces.Analyzer {
	return x.analyzer
}
func (x *Clients) BigQuery() interfaces.BigQuery {
	return x.bqClient
}

func WithGitHubApp(client interfaces.GitHubApp) Option {
	return func(x *Clients) {
		x.githubApp = client
	}
}

func WithAnalyzer(client interfaces.Analyzer) Option {
	return func(x *Clients) {
		x.analyzer = client
	}
}

func WithBigQuery(client interfaces.BigQuery) Option {
	return func(x *Clients) {
		x.bqClient = client
	}
}
