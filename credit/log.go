package credit

import (
	"github.com/children0001/inchain/infrastructure/logger"
)

var log, _ = logger.Get(logger.SubsystemTags.CRDT)
