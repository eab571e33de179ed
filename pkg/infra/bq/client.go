package bq

import (
	"context"
	"encoding/json"

	"cloud.google.com/go/bigquery"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/nibbler/pkg/domain/interfaces"
	"github.com/m-mizutani/nibbler/pkg/domain/types"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

type Client struct {
	bqClient *bigquery.Client
	dataset  string
	tableID  string
}

var _ interfaces.BigQuery = (*Client)(nil)

func New(ctx context.Context, projectID, datasetID, tableID string, options ...option.ClientOption) (*Client, error) {
	bqClient, err := bigquery.NewClient(ctx, projectID, options...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create BigQuery client", goerr.V("projectID", projectID))
	}

	return &Client{
		bqClient: bqClient,
		dataset:  datasetID,
		tableID:  tableID,
	}, nil
}

// Close releases the underlying API connection.
func (x *Client) Close() error {
	return x.bqClient.Close()
}

// CreateTable implements interfaces.BigQuery.
func (x *Client) CreateTable(ctx context.Context, md *bigquery.TableMetadata) error {
	if err := x.bqClient.Dataset(x.dataset).Table(x.tableID).Create(ctx, md); err != nil {
		return goerr.Wrap(err, "failed to create table", goerr.V("dataset", x.dataset), goerr.V("table", x.tableID))
	}
	return nil
}

// GetMetadata implements interfaces.BigQuery. If the table does not exist, it returns nil.
func (x *Client) GetMetadata(ctx context.Context) (*bigquery.TableMetadata, error) {
	md, err := x.bqClient.Dataset(x.dataset).Table(x.tableID).Metadata(ctx)
	if err != nil {
		if gErr, ok := err.(*googleapi.Error); ok && gErr.Code == 404 {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get table metadata", goerr.V("dataset", x.dataset), goerr.V("table", x.tableID))
	}

	return md, nil
}

// Insert implements interfaces.BigQuery. The record is round-tripped through
// JSON so that the inserted row matches the inferred schema's field names.
func (x *Client) Insert(ctx context.Context, schema bigquery.Schema, data any, opts ...interfaces.BigQueryInsertOption) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal record", goerr.V("v", data))
	}
	var row map[string]bigquery.Value
	if err := json.Unmarshal(raw, &row); err != nil {
		return goerr.Wrap(err, "failed to rebuild record", goerr.V("raw", string(raw)))
	}

	inserter := x.bqClient.Dataset(x.dataset).Table(x.tableID).Inserter()
	saver := &bigquery.ValuesSaver{
		Schema: schema,
		Row:    valuesForSchema(schema, row),
	}
	if err := inserter.Put(ctx, saver); err != nil {
		return goerr.Wrap(types.ErrProvider, "failed to insert row",
			goerr.V("dataset", x.dataset), goerr.V("table", x.tableID), goerr.V("cause", err),
		)
	}

	return nil
}

// UpdateTable implements interfaces.BigQuery.
func (x *Client) UpdateTable(ctx context.Context, md bigquery.TableMetadataToUpdate, eTag string) error {
	if _, err := x.bqClient.Dataset(x.dataset).Table(x.tableID).Update(ctx, md, eTag); err != nil {
		return goerr.Wrap(err, "failed to update table", goerr.V("dataset", x.dataset), goerr.V("table", x.tableID), goerr.V("meta", md))
	}

	return nil
}

func valuesForSchema(schema bigquery.Schema, row map[string]bigquery.Value) []bigquery.Value {
	values := make([]bigquery.Value, len(schema))
	for i, field := range schema {
		v, ok := row[field.Name]
		if !ok {
			continue
		}
		if nested, ok := v.(map[string]any); ok && field.Type == bigquery.RecordFieldType {
			converted := make(map[string]bigquery.Value, len(nested))
			for key, value := range nested {
				converted[key] = value
			}
			values[i] = valuesForSchema(field.Schema, converted)
			continue
		}
		values[i] = v
	}
	return values
}
