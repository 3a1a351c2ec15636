package alloc

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/nextfit/brkalloc/memutils"
	"github.com/nextfit/brkalloc/memutils/freelist"
)

// CalculateStatistics overwrites stats with a summary of every block in the heap
func (a *Allocator) CalculateStatistics(stats *memutils.DetailedStatistics) error {
	stats.Clear()
	stats.HeapBytes = a.HeapSize()

	return a.freeList.VisitAllRegions(func(offset int, size int, free bool) error {
		if free {
			stats.AddUnusedRange(size)
		} else {
			stats.AddAllocation(size)
		}
		return nil
	})
}

// BuildStatsString renders the heap's statistics as a JSON document. When detailed is true, the
// document also lists every block in address order.
func (a *Allocator) BuildStatsString(detailed bool) (string, error) {
	var stats memutils.DetailedStatistics
	err := a.CalculateStatistics(&stats)
	if err != nil {
		return "", err
	}

	writer := jwriter.NewWriter()
	objState := writer.Object()

	objState.Name("Strategy").String(a.strategy.String())

	totalObj := objState.Name("Total").Object()
	printStatistics(&totalObj, &stats)
	totalObj.End()

	if detailed {
		blocks := objState.Name("Blocks").Array()
		err = a.freeList.VisitAllRegions(func(offset int, size int, free bool) error {
			obj := blocks.Object()
			defer obj.End()

			obj.Name("Offset").Int(offset)
			obj.Name("Ptr").Int(freelist.Payload(offset))
			if free {
				obj.Name("Type").String("FREE")
			} else {
				obj.Name("Type").String("ALLOCATED")
			}
			obj.Name("Size").Int(size)
			return nil
		})
		blocks.End()

		if err != nil {
			return "", err
		}
	}

	objState.End()

	if err = writer.Error(); err != nil {
		return "", err
	}
	return string(writer.Bytes()), nil
}

func printStatistics(json *jwriter.ObjectState, stats *memutils.DetailedStatistics) {
	json.Name("HeapBytes").Int(stats.HeapBytes)
	json.Name("BlockCount").Int(stats.BlockCount)
	json.Name("HeaderBytes").Int(stats.HeaderBytes(freelist.HeaderSize))
	json.Name("AllocationCount").Int(stats.AllocationCount)
	json.Name("AllocationBytes").Int(stats.AllocationBytes)
	json.Name("UnusedRangeCount").Int(stats.UnusedRangeCount)
	json.Name("UnusedBytes").Int(stats.UnusedBytes)

	if stats.AllocationCount > 0 {
		json.Name("AllocationSizeMin").Int(stats.AllocationSizeMin)
		json.Name("AllocationSizeMax").Int(stats.AllocationSizeMax)
	}

	if stats.UnusedRangeCount > 0 {
		json.Name("UnusedRangeSizeMin").Int(stats.UnusedRangeSizeMin)
		json.Name("UnusedRangeSizeMax").Int(stats.UnusedRangeSizeMax)
		json.Name("Fragmentation").Float64(stats.Fragmentation())
	}
}
