package main

import "fleet-stats-backend/internal/importer"

func main() {
	importer.CLIMain(importer.GPUClassDomain{}, "import-gpu-classes")
}
