package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"raglobal-chat/internal/config"
	"raglobal-chat/internal/model"
	"raglobal-chat/internal/repository"
)

// Seeds a handful of labeled historical conversations so the retriever has a
// knowledge base and the trainer has something to fit.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	repo := repository.NewLeadRepository(client.Database(cfg.MongoDatabase))

	for _, lead := range sampleLeads() {
		lead := lead
		if err := repo.Insert(ctx, &lead); err != nil {
			log.Fatalf("Failed to insert lead: %v", err)
		}
		log.Printf("Inserted lead %s (%s, %d messages)", lead.ID, lead.Status, len(lead.Messages))
	}

	log.Println("Seed complete")
}

func sampleLeads() []model.Lead {
	return []model.Lead{
		{
			Contact: "ahmed",
			Status:  model.StatusQualified,
			Messages: []model.LeadMessage{
				{SenderType: model.SenderContact, Text: "Salam, n7eb na9ra informatique fi Malaisie"},
				{SenderType: model.SenderOperator, Text: "Ahla ! L'universités fi Malaisie 3andhom des programmes informatique mrigla, bch nab3thoulek l'liste."},
				{SenderType: model.SenderContact, Text: "3andi bac w moyenne 14, nejem nekhou bourse ?"},
				{SenderType: model.SenderOperator, Text: "B moyenne 14 3andek chance kbira fel bourse, l'dossier yet9adem 9bal septembre."},
				{SenderType: model.SenderContact, Text: "eyy behi, w l'IELTS lazem ?"},
				{SenderType: model.SenderOperator, Text: "L'IELTS mouch obligatoire lkol l'universités, famma eli ya9blou test interne."},
			},
		},
		{
			Contact: "mariem",
			Status:  model.StatusFollowUp,
			Messages: []model.LeadMessage{
				{SenderType: model.SenderContact, Text: "Chnowa l'frais mte3 l'visa ?"},
				{SenderType: model.SenderOperator, Text: "L'visa étudiant fi Malaisie ye7seb taw 9rib 350 dinar, w l'agence tet7amel l'procédure lkol."},
				{SenderType: model.SenderContact, Text: "w kifech nkhalles, bel flywire ?"},
				{SenderType: model.SenderOperator, Text: "Ey, l'paiement yet3ada bel Flywire w yji confirmé fi 48 heures."},
				{SenderType: model.SenderContact, Text: "mazelt nkhamem, bch nchouf m3a dari"},
				{SenderType: model.SenderOperator, Text: "Khoudh ra7tek, o93od 3la bali w kalamna wa9t eli t7eb."},
			},
		},
		{
			Contact: "youssef",
			Status:  model.StatusUnqualified,
			Messages: []model.LeadMessage{
				{SenderType: model.SenderContact, Text: "nejem na9ra master bla bac ?"},
				{SenderType: model.SenderOperator, Text: "Ma3lich, l'master yelzmou licence w l'licence telzemha bac, ama famma des formations professionnelles."},
				{SenderType: model.SenderContact, Text: "la ma3andich la bac la licence"},
				{SenderType: model.SenderOperator, Text: "Fi 7altek l'universités ma ya9blouch l'dossier, jarrab l'formations courtes."},
			},
		},
		{
			Contact: "ines",
			Status:  model.StatusQualified,
			Messages: []model.LeadMessage{
				{SenderType: model.SenderContact, Text: "3andi bac science w n7eb engineering"},
				{SenderType: model.SenderOperator, Text: "Engineering fi Malaisie mrigel barcha, l'universités publiques w privées el kol 3andhom."},
				{SenderType: model.SenderContact, Text: "w l'anglais mte3i la baças, chnowa na3mel ?"},
				{SenderType: model.SenderOperator, Text: "Tnejem tebda b semestre anglais intensif 9bal ma tebda l'cours, ykoun inclus fel pack."},
			},
		},
		{
			Contact: "sami",
			Status:  model.StatusFollowUp,
			Messages: []model.LeadMessage{
				{SenderType: model.SenderContact, Text: "9adech l'bourse tghatti mel frais ?"},
				{SenderType: model.SenderOperator, Text: "L'bourse tnejem tghatti men 30 l 100 fel mia 7asb l'moyenne w l'université."},
				{SenderType: model.SenderContact, Text: "behi bch nraja3 l'relevés mte3i w nkalmek"},
				{SenderType: model.SenderOperator, Text: "Behi, ki tjahez l'papiers ab3athhomli w na3mlou l'simulation."},
			},
		},
	}
}
