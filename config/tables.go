package config

import (
	"github.com/creasty/defaults"
)

type (
	//TableCfg is the container for other table config sections
	TableCfg struct {
		Log        LogTableCfg
		Structure  StructureTableCfg
		Technique  TechniqueTableCfg
		Anomaly    AnomalyTableCfg
		Score      ScoreTableCfg
		Historical HistoricalTableCfg
		Meta       MetaTableCfg
	}

	//LogTableCfg contains the log collection name
	LogTableCfg struct {
		LogTable string `default:"logs"`
	}

	//StructureTableCfg contains the names of the base level collections
	StructureTableCfg struct {
		EventTable string `default:"events"`
	}

	//TechniqueTableCfg is used by the technique mapper results writer
	TechniqueTableCfg struct {
		TechniqueTable string `default:"techniques"`
	}

	//AnomalyTableCfg holds the anomaly finding collection names
	AnomalyTableCfg struct {
		BeaconTable    string `default:"beacons"`
		PortScanTable  string `default:"portScans"`
		DNSTunnelTable string `default:"dnsTunnels"`
	}

	//ScoreTableCfg holds the weighted score collection name
	ScoreTableCfg struct {
		ScoreTable string `default:"scores"`
	}

	//HistoricalTableCfg holds the per-IOC outcome statistics collection name
	HistoricalTableCfg struct {
		IOCStatsTable string `default:"iocStats"`
	}

	//MetaTableCfg contains the meta db collection names
	MetaTableCfg struct {
		DatasetsTable string `default:"datasets"`
	}
)

// initTableConfig initializes the table config to its default values
func initTableConfig(tables *TableCfg) error {
	return defaults.Set(tables)
}
