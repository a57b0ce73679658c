/*
Package threshold tracks the allocation of thin-provisioned drives and
decides when their backing volumes must be extended.

A thin-provisioned drive on block storage grows in chunks. The monitor arms a
hypervisor block-threshold event at physical - watermark limit; when the
guest writes past it, the event marks the drive exceeded and the extension
flow picks it up. A monitoring cycle can also mark drives exceeded directly,
covering events lost because the threshold was armed below the current
allocation.

Extension requests far beyond the next expected volume size are rejected with
ErrImprobableResize: they indicate a corrupt or malicious image, not normal
growth.

The hypervisor call is abstracted behind the Hypervisor interface; the
monitor itself is pure bookkeeping and arithmetic.
*/
package threshold
