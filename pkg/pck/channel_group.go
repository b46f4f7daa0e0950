// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package pck

// ChannelGroup is a logical group of addressable members on a module.
type ChannelGroup int

// Channel groups
const (
	GroupOutput ChannelGroup = iota
	GroupRollerShutterOutput
	GroupRelay
	GroupRollerShutterRelay
	GroupLED
	GroupLogic
	GroupBinarySensor
	GroupVariable
	GroupRVarSetpoint
	GroupRVarLock
	GroupThresholdRegister1
	GroupThresholdRegister2
	GroupThresholdRegister3
	GroupThresholdRegister4
	GroupThresholdRegister5
	GroupS0Input
	GroupKeyLockTableA
	GroupKeyLockTableB
	GroupKeyLockTableC
	GroupKeyLockTableD
)

type channelGroupInfo struct {
	name  string
	count int
}

var channelGroups = map[ChannelGroup]channelGroupInfo{
	GroupOutput:              {"output", OutputCount},
	GroupRollerShutterOutput: {"rollershutteroutput", 1},
	GroupRelay:               {"relay", 8},
	GroupRollerShutterRelay:  {"rollershutterrelay", 4},
	GroupLED:                 {"led", 12},
	GroupLogic:               {"logic", 4},
	GroupBinarySensor:        {"binarysensor", 8},
	GroupVariable:            {"variable", 12},
	GroupRVarSetpoint:        {"rvarsetpoint", 2},
	GroupRVarLock:            {"rvarlock", 2},
	GroupThresholdRegister1:  {"thresholdregister1", 5},
	GroupThresholdRegister2:  {"thresholdregister2", 4},
	GroupThresholdRegister3:  {"thresholdregister3", 4},
	GroupThresholdRegister4:  {"thresholdregister4", 4},
	GroupThresholdRegister5:  {"thresholdregister5", 4},
	GroupS0Input:             {"s0input", 4},
	GroupKeyLockTableA:       {"keylocktablea", KeysPerTable},
	GroupKeyLockTableB:       {"keylocktableb", KeysPerTable},
	GroupKeyLockTableC:       {"keylocktablec", KeysPerTable},
	GroupKeyLockTableD:       {"keylocktabled", KeysPerTable},
}

// Count returns the number of addressable members in the group
func (g ChannelGroup) Count() int {
	return channelGroups[g].count
}

// IsValidID reports whether a 0-based member index exists in the group
func (g ChannelGroup) IsValidID(id int) bool {
	return id >= 0 && id < g.Count()
}

// String returns the group's identifier
func (g ChannelGroup) String() string {
	if info, ok := channelGroups[g]; ok {
		return info.name
	}
	return "unknown"
}
