package database

import (
	"log"

	"obrafacil/internal/model"

	"gorm.io/gorm"
)

// checklistSeed is the fixed quality checklist shipped with the application.
var checklistSeed = []struct {
	category string
	task     string
}{
	{"Fundação", "Verificar locação da obra conforme projeto"},
	{"Fundação", "Conferir armação e cobrimento das sapatas"},
	{"Fundação", "Verificar impermeabilização dos baldrames"},
	{"Estrutura", "Conferir prumo e nível dos pilares"},
	{"Estrutura", "Verificar escoramento antes da concretagem"},
	{"Estrutura", "Conferir cura do concreto (mínimo 7 dias)"},
	{"Alvenaria", "Verificar esquadro e prumo das paredes"},
	{"Alvenaria", "Conferir vergas e contravergas nos vãos"},
	{"Alvenaria", "Verificar amarração entre paredes"},
	{"Instalações", "Testar estanqueidade da rede hidráulica"},
	{"Instalações", "Conferir bitolas e circuitos elétricos"},
	{"Instalações", "Verificar caimento dos esgotos"},
	{"Impermeabilização", "Impermeabilizar áreas molhadas antes do contrapiso"},
	{"Impermeabilização", "Realizar teste de lâmina d'água (72h)"},
	{"Acabamento", "Conferir planeza do contrapiso antes do piso"},
	{"Acabamento", "Verificar alinhamento e rejunte dos revestimentos"},
	{"Acabamento", "Conferir funcionamento de portas e janelas"},
	{"Acabamento", "Verificar pintura após massa corrida seca"},
}

// DefaultChecklist returns the seed checklist with positions assigned.
func DefaultChecklist() []model.ChecklistItem {
	items := make([]model.ChecklistItem, 0, len(checklistSeed))
	for i, seed := range checklistSeed {
		items = append(items, model.ChecklistItem{
			Category: seed.category,
			Task:     seed.task,
			Position: i,
		})
	}
	return items
}

// DefaultIntegrations returns the three disconnected provider slots.
func DefaultIntegrations() []model.Integration {
	return []model.Integration{
		{Provider: model.ProviderGoogleDrive, Name: "Google Drive", Description: "Backup de fotos e documentos da obra"},
		{Provider: model.ProviderDropbox, Name: "Dropbox", Description: "Sincronização de orçamentos em PDF"},
		{Provider: model.ProviderOneDrive, Name: "OneDrive", Description: "Compartilhamento com o escritório"},
	}
}

// Seed fills the fixed collections when their tables are empty. Missing or
// wiped data always degrades to these defaults, never to an error.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.ChecklistItem{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		items := DefaultChecklist()
		if err := db.Create(&items).Error; err != nil {
			return err
		}
		log.Printf("Seeded quality checklist (%d items)", len(items))
	}

	if err := db.Model(&model.Integration{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		integrations := DefaultIntegrations()
		if err := db.Create(&integrations).Error; err != nil {
			return err
		}
		log.Printf("Seeded integration slots (%d providers)", len(integrations))
	}

	return nil
}
