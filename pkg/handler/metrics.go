package handler

import (
	"github.com/prometheus/client_golang/prometheus"

	vogdb "github.com/yumyai/vogapi/pkg/db"
)

// RegisterDatasetMetrics exports the loaded row count of each index.
func RegisterDatasetMetrics(reg prometheus.Registerer, vdb *vogdb.VogDB) {
	count := func(index string, get func(vogdb.Stats) int) prometheus.GaugeFunc {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   "vogapi",
			Name:        "index_rows",
			Help:        "Rows loaded per index, zero until the index is built.",
			ConstLabels: prometheus.Labels{"index": index},
		}, func() float64 { return float64(get(vdb.Stats())) })
	}

	reg.MustRegister(
		count("species", func(s vogdb.Stats) int { return s.Species }),
		count("groups", func(s vogdb.Stats) int { return s.Groups }),
		count("proteins", func(s vogdb.Stats) int { return s.Proteins }),
		count("genes", func(s vogdb.Stats) int { return s.Genes }),
	)
}
