package scanner

func (c *Counters) AddVisited(delta int64) int64 {
	return c.visited.Add(delta)
}

func (c *Counters) AddMatched(delta int64) int64 {
	return c.matched.Add(delta)
}

func (c *Counters) AddDirsScanned(delta int64) int64 {
	return c.dirsScanned.Add(delta)
}

func (c *Counters) AddDirErrors(delta int64) int64 {
	return c.dirErrors.Add(delta)
}

func (c *Counters) AddEntryErrors(delta int64) int64 {
	return c.entryErrors.Add(delta)
}

func (c *Counters) AddSkipped(delta int64) int64 {
	return c.skipped.Add(delta)
}

func (c *Counters) GetVisited() int64 {
	return c.visited.Load()
}

func (c *Counters) GetMatched() int64 {
	return c.matched.Load()
}

func (c *Counters) GetDirsScanned() int64 {
	return c.dirsScanned.Load()
}

func (c *Counters) GetDirErrors() int64 {
	return c.dirErrors.Load()
}

func (c *Counters) GetEntryErrors() int64 {
	return c.entryErrors.Load()
}

func (c *Counters) GetSkipped() int64 {
	return c.skipped.Load()
}
