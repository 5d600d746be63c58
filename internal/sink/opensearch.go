package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/mrlokans/mapharvest/internal/datacite"
)

// OpenSearchSink indexes documents by identifier so re-harvests overwrite.
type OpenSearchSink struct {
	client *opensearch.Client
	index  string
}

func NewOpenSearchSink(client *opensearch.Client, index string) *OpenSearchSink {
	return &OpenSearchSink{client: client, index: index}
}

type indexedDocument struct {
	*datacite.Document
	ETLName string `json:"etlName"`
	Version string `json:"harvestVersion"`
}

func (s *OpenSearchSink) Put(ctx context.Context, etlName, version string, doc *datacite.Document) error {
	body, err := json.Marshal(indexedDocument{Document: doc, ETLName: etlName, Version: version})
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	req := opensearchapi.IndexRequest{
		Index:      s.index,
		DocumentID: doc.Identifier.Value,
		Body:       bytes.NewReader(body),
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("failed to execute index request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing document %s: %s", doc.Identifier.Value, res.String())
	}
	return nil
}
