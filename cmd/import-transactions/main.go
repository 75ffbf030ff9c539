package main

import "fleet-stats-backend/internal/importer"

func main() {
	importer.CLIMain(importer.TransactionDomain{}, "import-transactions")
}
