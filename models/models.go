package models

// All returns every persisted model in migration order
func All() []interface{} {
	return []interface{}{
		&User{},
		&Session{},
		&Tabelionato{},
		&TipoAto{},
		&Cliente{},
		&Protocolo{},
		&DadosEscritura{},
		&Imovel{},
		&ComentarioInterno{},
		&JustificativaCancelamento{},
		&ArquivoDigitalizado{},
		&AuditLog{},
	}
}
