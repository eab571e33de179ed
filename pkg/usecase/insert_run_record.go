package usecase

import (
	"context"
	"log/slog"

	"cloud.google.com/go/bigquery"
	"github.com/m-mizutani/bqs"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/nibbler/pkg/domain/interfaces"
	"github.com/m-mizutani/nibbler/pkg/domain/model"
	"github.com/m-mizutani/nibbler/pkg/utils/logging"
)

// insertRunRecord exports one per-repository outcome to the warehouse. The
// export is best effort: a missing BigQuery client skips it silently, a
// failing one is only logged.
func (x *UseCase) insertRunRecord(ctx context.Context, record *model.RunRecord) {
	bq := x.clients.BigQuery()
	if bq == nil {
		return
	}

	schema, schemaUpdated, err := createOrUpdateRunTable(ctx, bq, record)
	if err != nil {
		logging.From(ctx).Warn("failed to prepare run record table",
			slog.Any("error", err),
		)
		return
	}

	if err := bq.Insert(ctx, schema, record, interfaces.WithRetry(schemaUpdated)); err != nil {
		logging.From(ctx).Warn("failed to insert run record",
			slog.Any("error", err),
		)
	}
}

func createOrUpdateRunTable(ctx context.Context, bq interfaces.BigQuery, record *model.RunRecord) (schema bigquery.Schema, schemaUpdated bool, err error) {
	schema, err = bqs.Infer(record)
	if err != nil {
		return nil, false, goerr.Wrap(err, "failed to infer run record schema")
	}

	metaData, err := bq.GetMetadata(ctx)
	if err != nil {
		return nil, false, goerr.Wrap(err, "failed to get table metadata")
	}
	if metaData == nil {
		if err := bq.CreateTable(ctx, &bigquery.TableMetadata{
			Schema: schema,
		}); err != nil {
			return nil, false, goerr.Wrap(err, "failed to create table")
		}
		return schema, false, nil
	}

	if bqs.Equal(metaData.Schema, schema) {
		return schema, false, nil
	}

	mergedSchema, err := bqs.Merge(metaData.Schema, schema)
	if err != nil {
		return nil, false, goerr.Wrap(err, "failed to merge schema")
	}
	if err := bq.UpdateTable(ctx, bigquery.TableMetadataToUpdate{
		Schema: mergedSchema,
	}, metaData.ETag); err != nil {
		return nil, false, goerr.Wrap(err, "failed to update table")
	}

	return mergedSchema, true, nil
}
