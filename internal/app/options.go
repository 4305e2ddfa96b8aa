package app

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithLeague selects the ranked queue, tier, and division to crawl.
func WithLeague(queue, tier, division string) Option {
	return func(p *Pipeline) {
		if queue != "" {
			p.queue = queue
		}
		if tier != "" {
			p.tier = tier
		}
		if division != "" {
			p.division = division
		}
	}
}

// WithMaxPages caps how many leaderboard pages the roster stage requests.
func WithMaxPages(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxPages = n
		}
	}
}

// WithMaxRoster truncates the materialized roster to n entries.
func WithMaxRoster(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxRoster = n
		}
	}
}

// WithPerPlayerCount sets how many recent match ids are pulled per player.
func WithPerPlayerCount(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.perPlayer = n
		}
	}
}

// WithTargetCorpus sets the corpus size ceiling that stops collection.
func WithTargetCorpus(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.target = n
		}
	}
}

// WithWorkers sets the pool size shared by the concurrent stages.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithBatchSize sets the record writer's flush batch size.
func WithBatchSize(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

// WithOutputDir sets the directory holding all crawl artifacts.
func WithOutputDir(dir string) Option {
	return func(p *Pipeline) {
		if dir != "" {
			p.outputDir = dir
		}
	}
}
