package audit

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	keyYes         = "audit.yes"
	keyNo          = "audit.no"
	keyEmpty       = "audit.empty"
	keySystem      = "audit.system"
	keyNoDetails   = "audit.no_details"
	keyNoChanges   = "audit.no_changes"
	keyDeleted     = "audit.deleted"
	keyRecordID    = "audit.record_id"
	keyInsert      = "audit.action.insert"
	keyUpdate      = "audit.action.update"
	keyDelete      = "audit.action.delete"
	keyEvents      = "audit.table.events"
	keyCompanies   = "audit.table.companies"
	keyRelations   = "audit.table.event_companies"
	keyContacts    = "audit.table.contacts"
	keyTimestamp   = "audit.timestamp"
	keyUnavailable = "audit.unavailable"
)

func init() {
	pt := language.MustParse("pt-BR")
	message.SetString(pt, keyYes, "Sim")
	message.SetString(pt, keyNo, "Não")
	message.SetString(pt, keyEmpty, "vazio")
	message.SetString(pt, keySystem, "Sistema")
	message.SetString(pt, keyNoDetails, "Sem detalhes.")
	message.SetString(pt, keyNoChanges, "Nenhuma alteração visível nos dados.")
	message.SetString(pt, keyDeleted, "%s excluído.")
	message.SetString(pt, keyRecordID, "ID: %s")
	message.SetString(pt, keyInsert, "CRIADO")
	message.SetString(pt, keyUpdate, "EDITADO")
	message.SetString(pt, keyDelete, "EXCLUÍDO")
	message.SetString(pt, keyEvents, "Evento")
	message.SetString(pt, keyCompanies, "Empresa")
	message.SetString(pt, keyRelations, "Negociação")
	message.SetString(pt, keyContacts, "Contato")
	message.SetString(pt, keyTimestamp, "%s às %s")
	message.SetString(pt, keyUnavailable, "A tabela de auditoria ainda não foi criada no banco de dados.")

	en := language.MustParse("en-US")
	message.SetString(en, keyYes, "Yes")
	message.SetString(en, keyNo, "No")
	message.SetString(en, keyEmpty, "empty")
	message.SetString(en, keySystem, "System")
	message.SetString(en, keyNoDetails, "No details.")
	message.SetString(en, keyNoChanges, "No tracked changes.")
	message.SetString(en, keyDeleted, "%s deleted.")
	message.SetString(en, keyRecordID, "ID: %s")
	message.SetString(en, keyInsert, "CREATED")
	message.SetString(en, keyUpdate, "EDITED")
	message.SetString(en, keyDelete, "DELETED")
	message.SetString(en, keyEvents, "Event")
	message.SetString(en, keyCompanies, "Company")
	message.SetString(en, keyRelations, "Deal")
	message.SetString(en, keyContacts, "Contact")
	message.SetString(en, keyTimestamp, "%s at %s")
	message.SetString(en, keyUnavailable, "The audit table has not been created in the database yet.")
}
