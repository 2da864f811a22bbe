package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ypchan/barcode-vote-classifier/config"
	"github.com/ypchan/barcode-vote-classifier/internal/barcode"
)

// classifyCmd runs minimap2 against the resolved reference and votes each
// query into a barcode category.
var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Run minimap2, filter hits (identity, coverage, mapq) and vote classify",
	Long: `Classify reads or contigs by aligning them against the barcode reference
and holding a vote over the filtered hits of each query.

Hits are filtered on identity (matches/alnlen), target coverage (alnlen/tlen)
and mapping quality. Each surviving hit votes for the category prefix of its
target name ("Bacteria|ACC001" votes for "Bacteria"). The category with the
strictly highest score wins; a tie is reported as "ambiguous" and a query
with no surviving hits as "unclassified".

With --paf, an existing PAF file (or "-" for stdin) is classified instead of
running minimap2.`,
	Example: `  barcode-vote classify -q fastp/SAMPLE.fastq.gz -o out/SAMPLE -t 56
  barcode-vote classify -q contigs.fasta -o out/contigs --id-thr 0.5 --cov-thr 0.5
  minimap2 -x map-hifi ref.mmi reads.fq | barcode-vote classify --paf - -q reads.fq -o out/sample`,
	Run: runClassify,
}

func runClassify(cmd *cobra.Command, args []string) {
	c, err := config.New()
	if err != nil {
		log.Fatalf("%v", err)
	}

	if c.PAF == "" && c.Query == "" {
		log.Fatal("no input: pass a query file (-q) or an existing PAF (--paf)")
	}
	if c.Secondary != "yes" && c.Secondary != "no" {
		log.Fatalf("--secondary must be yes or no, got %q", c.Secondary)
	}

	run := barcode.RunOptions{
		Vote: barcode.Options{
			MinMapQ:     c.MinMapQ,
			MinIdentity: c.IDThr,
			MinCoverage: c.CovThr,
			Weighting:   c.Weighting,
			Sep:         c.Sep,
		},
		PAFPath:   c.PAF,
		QueryPath: c.Query,
		OutPrefix: c.OutPrefix,
		Workers:   c.Workers,
		SaveHits:  c.SaveHits,
		Summary:   os.Stderr,
	}

	if c.PAF == "" {
		ref, source, err := config.ResolveRef(c.Ref, !c.NoTmpCache)
		if err != nil {
			log.Fatalf("%v", err)
		}
		log.Infof("using ref: %s (source=%s)", ref, source)

		run.Aligner = barcode.AlignerOptions{
			Ref:       ref,
			Query:     c.Query,
			Preset:    c.Preset,
			Threads:   c.Threads,
			MaxHits:   c.MaxHits,
			Secondary: c.Secondary == "yes",
		}
	}

	if err := barcode.Run(run); err != nil {
		log.Fatalf("%v", err)
	}
}

// set flags
func init() {
	classifyCmd.Flags().StringP("query", "q", "", "reads/contigs file (FASTA/FASTQ; .gz supported)")
	classifyCmd.Flags().StringP("out-prefix", "o", "", "output prefix (writes <prefix>.final_results.tsv)")
	classifyCmd.Flags().String("ref", "", "reference .mmi path override (highest priority)")
	classifyCmd.Flags().String("paf", "", `classify an existing PAF file instead of running minimap2 ("-" reads stdin)`)
	classifyCmd.Flags().IntP("threads", "t", 28, "threads for minimap2")
	classifyCmd.Flags().IntP("max-hits", "N", 10, "minimap2 -N (max hits per query)")
	classifyCmd.Flags().String("secondary", "no", "allow secondary alignments (yes or no)")
	classifyCmd.Flags().StringP("preset", "x", "map-hifi", "minimap2 preset (-x)")
	classifyCmd.Flags().Float64("id-thr", 0.5, "identity threshold: matches/alnlen > id-thr")
	classifyCmd.Flags().Float64("cov-thr", 0.5, "coverage threshold: alnlen/tlen > cov-thr")
	classifyCmd.Flags().Int("min-mapq", 0, "keep hits only if mapq >= min-mapq")
	classifyCmd.Flags().String("weighting", barcode.WeightMatches,
		"vote weight per hit: matches, count or identity-weighted")
	classifyCmd.Flags().String("sep", "|", "separator splitting Category from Accession in target IDs")
	classifyCmd.Flags().Bool("save-filtered-hits", false, "save <prefix>.filtered_hits.tsv")
	classifyCmd.Flags().Int("workers", 0, "per-query scoring goroutines (0 uses all CPUs)")
	classifyCmd.Flags().Bool("no-tmp-cache", false, "do not use TMPDIR as the cache location")

	classifyCmd.MarkFlagRequired("out-prefix")

	// Bind the parameters to viper
	for _, flag := range []string{
		"query", "out-prefix", "ref", "paf",
		"threads", "max-hits", "secondary", "preset",
		"id-thr", "cov-thr", "min-mapq", "weighting", "sep",
		"save-filtered-hits", "workers", "no-tmp-cache",
	} {
		viper.BindPFlag(flag, classifyCmd.Flags().Lookup(flag))
	}

	rootCmd.AddCommand(classifyCmd)
}
