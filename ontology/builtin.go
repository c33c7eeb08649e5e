package ontology

// Builtin returns the static concept set the extraction core ships with:
// civil, commercial, labor, and constitutional concepts for Spanish-speaking
// jurisdictions. Deployments with a maintained ontology load it from YAML or
// XLSX instead; the built-in set keeps the engine usable out of the box and
// anchors the test suite.
func Builtin() []Concept {
	return []Concept{
		{
			ID:                  "contrato",
			Name:                "Contrato",
			Category:            "derecho_civil",
			Subcategory:         "contratos",
			Definition:          "Acto jurídico mediante el cual dos o más partes manifiestan su consentimiento para crear, regular, modificar, transferir o extinguir relaciones jurídicas patrimoniales.",
			Keywords:            []string{"contrato", "contratos"},
			Synonyms:            []string{"convención", "acuerdo contractual"},
			Jurisdictions:       []string{"argentina", "chile", "espana", "mexico"},
			ConfidenceThreshold: 0.68,
			LegalWeight:         0.70,
			ChildConcepts:       []string{"contrato_compraventa", "contrato_trabajo", "contrato_locacion"},
			RelatedConcepts:     []string{"consentimiento", "obligacion"},
		},
		{
			ID:                  "contrato_compraventa",
			Name:                "Contrato de compraventa",
			Category:            "derecho_civil",
			Subcategory:         "contratos",
			Definition:          "Contrato por el cual una parte se obliga a transferir la propiedad de una cosa y la otra a pagar un precio cierto en dinero.",
			Keywords:            []string{"compraventa", "contrato de compraventa", "venta"},
			Synonyms:            []string{"enajenación onerosa"},
			Jurisdictions:       []string{"argentina", "chile", "espana", "mexico"},
			ConfidenceThreshold: 0.70,
			LegalWeight:         0.85,
			ParentConcepts:      []string{"contrato"},
			RelatedConcepts:     []string{"consentimiento"},
		},
		{
			ID:                  "contrato_locacion",
			Name:                "Contrato de locación",
			Category:            "derecho_civil",
			Subcategory:         "contratos",
			Definition:          "Contrato por el cual una parte se obliga a otorgar el uso y goce temporario de una cosa a cambio del pago de un precio en dinero.",
			Keywords:            []string{"locación", "alquiler", "arrendamiento"},
			Synonyms:            []string{"contrato de arrendamiento"},
			Jurisdictions:       []string{"argentina", "chile", "espana"},
			ConfidenceThreshold: 0.70,
			LegalWeight:         0.75,
			ParentConcepts:      []string{"contrato"},
		},
		{
			ID:                  "consentimiento",
			Name:                "Consentimiento",
			Category:            "derecho_civil",
			Subcategory:         "actos_juridicos",
			Definition:          "Manifestación de voluntad libre, consciente y exteriorizada por la cual las partes aceptan obligarse; elemento esencial de validez de los contratos.",
			Keywords:            []string{"consentimiento"},
			Synonyms:            []string{"acuerdo de voluntades", "voluntad contractual"},
			Jurisdictions:       []string{"argentina", "chile", "espana", "mexico"},
			ConfidenceThreshold: 0.68,
			LegalWeight:         0.80,
			ChildConcepts:       []string{"vicios_consentimiento"},
			RelatedConcepts:     []string{"contrato"},
		},
		{
			ID:                  "vicios_consentimiento",
			Name:                "Vicios del consentimiento",
			Category:            "derecho_civil",
			Subcategory:         "actos_juridicos",
			Definition:          "Circunstancias que afectan la formación válida de la voluntad contractual: el error, el dolo y la violencia o intimidación.",
			Keywords:            []string{"vicio del consentimiento", "vicios del consentimiento", "dolo", "intimidación"},
			Synonyms:            []string{"voluntad viciada"},
			Jurisdictions:       []string{"argentina", "chile", "espana", "mexico"},
			ConfidenceThreshold: 0.72,
			LegalWeight:         0.70,
			ParentConcepts:      []string{"consentimiento"},
		},
		{
			ID:                  "obligacion",
			Name:                "Obligación",
			Category:            "derecho_civil",
			Subcategory:         "obligaciones",
			Definition:          "Relación jurídica en virtud de la cual el acreedor tiene derecho a exigir del deudor una prestación de dar, hacer o no hacer.",
			Keywords:            []string{"obligación", "obligaciones"},
			Synonyms:            []string{"deber jurídico patrimonial"},
			Jurisdictions:       []string{"argentina", "chile", "espana", "mexico"},
			ConfidenceThreshold: 0.68,
			LegalWeight:         0.65,
			RelatedConcepts:     []string{"responsabilidad_civil", "contrato"},
		},
		{
			ID:                  "responsabilidad_civil",
			Name:                "Responsabilidad civil",
			Category:            "derecho_civil",
			Subcategory:         "responsabilidad",
			Definition:          "Deber de reparar el daño causado a otro por incumplimiento de una obligación o por violación del deber general de no dañar.",
			Keywords:            []string{"responsabilidad civil", "daños y perjuicios", "reparación del daño"},
			Synonyms:            []string{"responsabilidad por daños"},
			Jurisdictions:       []string{"argentina", "chile", "espana", "mexico"},
			ConfidenceThreshold: 0.70,
			LegalWeight:         0.90,
			ChildConcepts:       []string{"dano_moral"},
			RelatedConcepts:     []string{"obligacion"},
		},
		{
			ID:                  "dano_moral",
			Name:                "Daño moral",
			Category:            "derecho_civil",
			Subcategory:         "responsabilidad",
			Definition:          "Lesión a intereses no patrimoniales de la persona, como el honor, la intimidad o las afecciones legítimas, que genera derecho a indemnización.",
			Keywords:            []string{"daño moral", "daño extrapatrimonial"},
			Synonyms:            []string{"agravio moral"},
			Jurisdictions:       []string{"argentina", "chile", "espana", "mexico"},
			ConfidenceThreshold: 0.72,
			LegalWeight:         0.75,
			ParentConcepts:      []string{"responsabilidad_civil"},
		},
		{
			ID:                  "ley_sociedades",
			Name:                "Sociedades comerciales",
			Category:            "derecho_comercial",
			Subcategory:         "sociedades",
			Definition:          "Régimen general de las sociedades establecido por la Ley 19.550: constitución, tipos societarios, órganos de gobierno y responsabilidad de los socios.",
			Keywords:            []string{"sociedad anónima", "sociedad comercial", "ley de sociedades", "sociedad de responsabilidad limitada"},
			Synonyms:            []string{"régimen societario"},
			Jurisdictions:       []string{"argentina"},
			ConfidenceThreshold: 0.70,
			LegalWeight:         0.85,
			RelatedConcepts:     []string{"contrato"},
		},
		{
			ID:                  "contrato_trabajo",
			Name:                "Contrato de trabajo",
			Category:            "derecho_laboral",
			Subcategory:         "relacion_laboral",
			Definition:          "Acuerdo por el cual una persona se obliga a prestar servicios bajo dependencia de otra a cambio de una remuneración.",
			Keywords:            []string{"contrato de trabajo", "relación laboral", "relación de dependencia"},
			Synonyms:            []string{"vínculo laboral"},
			Jurisdictions:       []string{"argentina", "chile", "espana", "mexico"},
			ConfidenceThreshold: 0.70,
			LegalWeight:         0.80,
			ParentConcepts:      []string{"contrato"},
			ChildConcepts:       []string{"despido_injustificado"},
		},
		{
			ID:                  "despido_injustificado",
			Name:                "Despido injustificado",
			Category:            "derecho_laboral",
			Subcategory:         "extincion",
			Definition:          "Extinción del contrato de trabajo por decisión del empleador sin causa justificada, que genera derecho a indemnización.",
			Keywords:            []string{"despido", "despido sin causa", "indemnización por despido"},
			Synonyms:            []string{"despido arbitrario", "despido improcedente"},
			Jurisdictions:       []string{"argentina", "chile", "espana", "mexico"},
			ConfidenceThreshold: 0.72,
			LegalWeight:         0.80,
			ParentConcepts:      []string{"contrato_trabajo"},
		},
		{
			ID:                  "debido_proceso",
			Name:                "Debido proceso",
			Category:            "derecho_constitucional",
			Subcategory:         "garantias",
			Definition:          "Garantía constitucional que asegura a toda persona un juicio justo ante juez competente, con derecho a ser oída y a producir prueba.",
			Keywords:            []string{"debido proceso", "garantías procesales", "defensa en juicio"},
			Synonyms:            []string{"tutela judicial efectiva"},
			Jurisdictions:       []string{"argentina", "chile", "espana", "mexico"},
			ConfidenceThreshold: 0.70,
			LegalWeight:         0.90,
			RelatedConcepts:     []string{"amparo"},
		},
		{
			ID:                  "amparo",
			Name:                "Acción de amparo",
			Category:            "derecho_constitucional",
			Subcategory:         "garantias",
			Definition:          "Acción judicial expedita y rápida contra actos u omisiones que lesionen derechos y garantías reconocidos por la constitución.",
			Keywords:            []string{"amparo", "acción de amparo", "recurso de amparo"},
			Synonyms:            []string{"juicio de amparo"},
			Jurisdictions:       []string{"argentina", "espana", "mexico"},
			ConfidenceThreshold: 0.72,
			LegalWeight:         0.85,
			RelatedConcepts:     []string{"debido_proceso"},
		},
		{
			ID:                  "recurso_proteccion",
			Name:                "Recurso de protección",
			Category:            "derecho_constitucional",
			Subcategory:         "garantias",
			Definition:          "Acción constitucional chilena ante la Corte de Apelaciones para restablecer el imperio del derecho frente a actos arbitrarios o ilegales.",
			Keywords:            []string{"recurso de protección"},
			Synonyms:            []string{"acción de protección"},
			Jurisdictions:       []string{"chile"},
			ConfidenceThreshold: 0.72,
			LegalWeight:         0.85,
			RelatedConcepts:     []string{"debido_proceso"},
		},
		{
			ID:                  "prescripcion",
			Name:                "Prescripción",
			Category:            "derecho_civil",
			Subcategory:         "extincion",
			Definition:          "Modo de adquirir derechos o de liberarse de obligaciones por el transcurso del tiempo fijado por la ley.",
			Keywords:            []string{"prescripción", "prescripción liberatoria", "prescripción adquisitiva"},
			Synonyms:            []string{"usucapión"},
			Jurisdictions:       []string{"argentina", "chile", "espana", "mexico"},
			ConfidenceThreshold: 0.72,
			LegalWeight:         0.70,
			RelatedConcepts:     []string{"obligacion"},
		},
	}
}
