package bq_test

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/m-mizutani/bqs"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/nibbler/pkg/domain/model"
	"github.com/m-mizutani/nibbler/pkg/domain/types"
	"github.com/m-mizutani/nibbler/pkg/infra/bq"
	"github.com/m-mizutani/nibbler/pkg/utils/safe"
	"github.com/m-mizutani/nibbler/pkg/utils/testutil"
)

func TestClient(t *testing.T) {
	projectID := testutil.GetEnvOrSkip(t, "TEST_BIGQUERY_PROJECT_ID")
	datasetID := testutil.GetEnvOrSkip(t, "TEST_BIGQUERY_DATASET_ID")

	ctx := context.Background()

	tblName := time.Now().Format("insert_test_20060102_150405")
	client, err := bq.New(ctx, projectID, datasetID, tblName)
	gt.NoError(t, err)
	defer safe.Close(client)

	record := model.RunRecord{
		RunID:     types.NewRunID(),
		Timestamp: time.Now().UTC(),
		InstallID: 100,
		Account:   "blue",
		Outcome: model.WorkflowOutcome{
			Repo:   "blue/api",
			Status: model.OutcomeSkipped,
			Reason: model.SkipNoCandidate,
		},
	}
	schema := gt.R1(bqs.Infer(record)).NoError(t)

	t.Run("create table", func(t *testing.T) {
		gt.NoError(t, client.CreateTable(ctx, &bigquery.TableMetadata{
			Name:   tblName,
			Schema: schema,
		}))
	})

	t.Run("insert record", func(t *testing.T) {
		gt.NoError(t, client.Insert(ctx, schema, record))
	})

	t.Run("metadata of existing table", func(t *testing.T) {
		md := gt.R1(client.GetMetadata(ctx)).NoError(t)
		gt.V(t, md != nil).Equal(true)
		gt.V(t, bqs.Equal(md.Schema, schema)).Equal(true)
	})
}

func TestGetMetadataMissingTable(t *testing.T) {
	projectID := testutil.GetEnvOrSkip(t, "TEST_BIGQUERY_PROJECT_ID")
	datasetID := testutil.GetEnvOrSkip(t, "TEST_BIGQUERY_DATASET_ID")

	ctx := context.Background()
	client, err := bq.New(ctx, projectID, datasetID, "non_existent_table_999999")
	gt.NoError(t, err)
	defer safe.Close(client)

	md, err := client.GetMetadata(ctx)
	gt.NoError(t, err)
	gt.V(t, md == nil).Equal(true)
}
