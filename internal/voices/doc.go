// Package voices maps speakers to synthesis voices.
//
// Map ranks guest speakers by how many segments they speak and gives the most
// frequent guests distinct voices from a bounded pool. RoleSplit is the simpler
// host/guest selector. Both satisfy Selector.
package voices
