package service

import (
	"encoding/json"
	"testing"

	"obrafacil/internal/database"
	"obrafacil/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSnapshotCorruptPayloadFallsBackToDefaults(t *testing.T) {
	snapshot, corrupt := decodeSnapshot([]byte("{not json at all"))

	assert.True(t, corrupt)
	assert.Empty(t, snapshot.AppData.Materials)
	assert.Empty(t, snapshot.Users)
	assert.Len(t, snapshot.AppData.Checklist, len(database.DefaultChecklist()))
	assert.Len(t, snapshot.AppData.Integrations, len(database.DefaultIntegrations()))
}

func TestDecodeSnapshotKeepsCarriedSections(t *testing.T) {
	raw, err := json.Marshal(Snapshot{
		AppData: SnapshotAppData{
			Materials:    []model.Material{{Codigo: "CIM-01", Descricao: "Cimento CP-II", Unidade: "un"}},
			Checklist:    []model.ChecklistItem{{Category: "Fundação", Task: "Conferir gabarito"}},
			Integrations: []model.Integration{{Provider: model.ProviderGoogleDrive, Name: "Google Drive"}},
		},
	})
	require.NoError(t, err)

	snapshot, corrupt := decodeSnapshot(raw)

	assert.False(t, corrupt)
	require.Len(t, snapshot.AppData.Materials, 1)
	assert.Equal(t, "CIM-01", snapshot.AppData.Materials[0].Codigo)
	assert.Len(t, snapshot.AppData.Checklist, 1)
	require.Len(t, snapshot.AppData.Integrations, 1)
	assert.Equal(t, model.ProviderGoogleDrive, snapshot.AppData.Integrations[0].Provider)
}

func TestDecodeSnapshotBackfillsMissingSections(t *testing.T) {
	snapshot, corrupt := decodeSnapshot([]byte(`{}`))

	assert.False(t, corrupt)
	assert.Len(t, snapshot.AppData.Checklist, len(database.DefaultChecklist()))
	assert.Len(t, snapshot.AppData.Integrations, len(database.DefaultIntegrations()))
	assert.Empty(t, snapshot.Users)
}

func TestDecodeSnapshotDropsUnknownProviders(t *testing.T) {
	raw := []byte(`{"appData":{"integrations":[{"provider":"ftp","name":"FTP"}]}}`)

	snapshot, corrupt := decodeSnapshot(raw)

	assert.False(t, corrupt)
	// With every carried entry dropped, the seeded trio comes back.
	assert.Len(t, snapshot.AppData.Integrations, len(database.DefaultIntegrations()))
	for _, integration := range snapshot.AppData.Integrations {
		assert.True(t, model.ValidProvider(integration.Provider))
	}
}
