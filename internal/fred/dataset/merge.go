package dataset

import "sort"

// MergeSeriesReleases inner-joins series against the release catalog on
// release id, attaching the release name to each surviving series row.
// Series whose release id was never fetched are dropped, not errors.
func MergeSeriesReleases(series []Series, releases []Release) []SeriesWithName {
	names := make(map[int]string, len(releases))
	for _, r := range releases {
		names[r.ID] = r.Name
	}

	out := make([]SeriesWithName, 0, len(series))
	for _, s := range series {
		name, ok := names[s.ReleaseID]
		if !ok {
			continue
		}
		out = append(out, SeriesWithName{Series: s, ReleaseName: name})
	}
	return out
}

// MergeObservations inner-joins observations against the named series
// table on series id, producing one flat record per (observation,
// matching series listing) pair: a series listed under several releases
// yields one row per listing, so every release keeps its attribution.
// Rows whose series was never successfully fetched are dropped. The
// result is sorted by (series id, date, realtime start, release id) so
// two runs over the same upstream data produce identical tables
// regardless of fetch completion order.
func MergeObservations(observations []Observation, series []SeriesWithName) []MergedRecord {
	bySeries := make(map[string][]SeriesWithName, len(series))
	for _, s := range series {
		bySeries[s.ID] = append(bySeries[s.ID], s)
	}

	out := make([]MergedRecord, 0, len(observations))
	for _, o := range observations {
		for _, s := range bySeries[o.SeriesID] {
			out = append(out, toMergedRecord(o, s))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].SeriesID != out[j].SeriesID {
			return out[i].SeriesID < out[j].SeriesID
		}
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		if !out[i].RealtimeStart.Equal(out[j].RealtimeStart) {
			return out[i].RealtimeStart.Before(out[j].RealtimeStart)
		}
		return out[i].ReleaseID < out[j].ReleaseID
	})
	return out
}

func toMergedRecord(o Observation, s SeriesWithName) MergedRecord {
	return MergedRecord{
		SeriesID:                o.SeriesID,
		Date:                    o.Date,
		Year:                    o.Date.Year(),
		Month:                   int(o.Date.Month()),
		Value:                   o.Value,
		RealtimeStart:           o.RealtimeStart,
		RealtimeEnd:             o.RealtimeEnd,
		Title:                   s.Title,
		Frequency:               s.Frequency,
		SeasonalAdjustmentShort: s.SeasonalAdjustmentShort,
		ReleaseID:               s.ReleaseID,
		ReleaseName:             s.ReleaseName,
	}
}
